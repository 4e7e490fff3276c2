package service

import (
	"context"
	"errors"
	"testing"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
)

func TestAuthorize(t *testing.T) {
	group := &models.Group{
		ID:        "g1",
		Kind:      models.GroupKindSplit,
		CreatedBy: "alice@uni.edu",
		Members: []models.Member{
			{Email: "alice@uni.edu", Role: models.RoleAdmin},
			{Email: "bob@uni.edu", Role: models.RoleMember},
			{Email: "carol@uni.edu", Role: models.RoleAdmin},
		},
	}

	tests := []struct {
		name         string
		group        *models.Group
		email        string
		requireAdmin bool
		wantErr      error
	}{
		{"nil group", nil, "alice@uni.edu", false, apperr.ErrNotFound},
		{"member read", group, "bob@uni.edu", false, nil},
		{"member read case-insensitive", group, "BOB@Uni.Edu", false, nil},
		{"outsider", group, "mallory@uni.edu", false, apperr.ErrForbidden},
		{"member as admin", group, "bob@uni.edu", true, apperr.ErrForbidden},
		{"creator as admin", group, "alice@uni.edu", true, nil},
		{"admin role as admin", group, "carol@uni.edu", true, nil},
		{"outsider as admin", group, "mallory@uni.edu", true, apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.group, tt.email, tt.requireAdmin)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Authorize failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadGroupKindMismatch(t *testing.T) {
	ts := newTestServices(t)
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	// A split group must not be reachable through the meal family.
	_, err := ts.guard.LoadGroup(context.Background(), models.GroupKindMeal, group.ID, "alice@uni.edu", false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for kind mismatch, got %v", err)
	}
}

func TestEnsureMembersIdempotent(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	group := ts.mustCreateGroup(t, models.GroupKindSplit, "bob@uni.edu")

	if err := ts.guard.EnsureMembers(ctx, group, "Dave@Uni.Edu", "bob@uni.edu", ""); err != nil {
		t.Fatalf("EnsureMembers failed: %v", err)
	}
	if len(group.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(group.Members))
	}
	if !group.IsMember("dave@uni.edu") {
		t.Error("dave was not added")
	}

	// Second call must change nothing.
	if err := ts.guard.EnsureMembers(ctx, group, "dave@uni.edu"); err != nil {
		t.Fatalf("EnsureMembers repeat failed: %v", err)
	}
	if len(group.Members) != 3 {
		t.Errorf("repeat call changed membership: %d members", len(group.Members))
	}

	// And the addition must have been persisted.
	stored, err := ts.store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !stored.IsMember("dave@uni.edu") {
		t.Error("auto-added member not persisted")
	}
	if stored.IsAdmin("dave@uni.edu") {
		t.Error("auto-added member must not be admin")
	}
}
