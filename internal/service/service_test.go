package service

import (
	"context"
	"path/filepath"
	"testing"

	"hallmate/internal/models"
	"hallmate/internal/storage"
	"hallmate/internal/storage/sqlite"
)

// newTestStore opens a throwaway sqlite store under t.TempDir().
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

type testServices struct {
	store  storage.Store
	guard  *Guard
	groups *GroupService
	split  *SplitService
	meal   *MealService
	fund   *FundService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	store := newTestStore(t)
	guard := NewGuard(store)
	return &testServices{
		store:  store,
		guard:  guard,
		groups: NewGroupService(store, guard),
		split:  NewSplitService(store, guard),
		meal:   NewMealService(store, guard),
		fund:   NewFundService(store),
	}
}

// mustCreateGroup seeds a group for the given kind with alice as creator.
func (ts *testServices) mustCreateGroup(t *testing.T, kind models.GroupKind, members ...string) *models.Group {
	t.Helper()

	var in []MemberInput
	for _, m := range members {
		in = append(in, MemberInput{Email: m})
	}
	group, err := ts.groups.Create(context.Background(), kind, "alice@uni.edu", "Test Group", in)
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	return group
}
