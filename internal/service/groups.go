package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// MemberInput is a requested member from the API.
type MemberInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// GroupService owns the group lifecycle shared by both group kinds.
type GroupService struct {
	store storage.Store
	guard *Guard
}

// NewGroupService creates the group lifecycle service.
func NewGroupService(store storage.Store, guard *Guard) *GroupService {
	return &GroupService{store: store, guard: guard}
}

// Create makes a new group with the creator as first admin. Requested
// members are appended after the creator; Normalize (run by the store on
// save) dedupes and promotes an admin if the list ends up without one.
func (s *GroupService) Create(ctx context.Context, kind models.GroupKind, creatorEmail, name string, members []MemberInput) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.InvalidInput("group name is required")
	}
	creatorEmail = models.NormalizeEmail(creatorEmail)
	if creatorEmail == "" {
		return nil, apperr.InvalidInput("creator email is required")
	}

	now := time.Now().Unix()
	group := &models.Group{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		CreatedBy: creatorEmail,
		CreatedAt: now,
		UpdatedAt: now,
		Members: []models.Member{
			{Email: creatorEmail, Role: models.RoleAdmin, JoinedAt: now},
		},
	}
	for _, m := range members {
		group.Members = append(group.Members, models.Member{
			Email:    m.Email,
			Name:     m.Name,
			Role:     models.Role(m.Role),
			JoinedAt: now,
		})
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.Info("group created", "group_id", group.ID, "kind", kind, "members", len(group.Members))
	return group, nil
}

// ListMine returns the groups of one kind the caller belongs to.
func (s *GroupService) ListMine(ctx context.Context, kind models.GroupKind, email string) ([]models.Group, error) {
	groups, err := s.store.ListGroupsByMember(ctx, kind, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return groups, nil
}

// Get returns one group the caller is a member of.
func (s *GroupService) Get(ctx context.Context, kind models.GroupKind, groupID, email string) (*models.Group, error) {
	return s.guard.LoadGroup(ctx, kind, groupID, email, false)
}

// AddMembers appends new members to a group. Admin only. Existing members
// are left untouched; the call is idempotent for repeats.
func (s *GroupService) AddMembers(ctx context.Context, kind models.GroupKind, groupID, callerEmail string, members []MemberInput) (*models.Group, error) {
	if len(members) == 0 {
		return nil, apperr.InvalidInput("at least one member is required")
	}
	group, err := s.guard.LoadGroup(ctx, kind, groupID, callerEmail, true)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	for _, m := range members {
		email := models.NormalizeEmail(m.Email)
		if email == "" || group.IsMember(email) {
			continue
		}
		group.Members = append(group.Members, models.Member{
			Email:    email,
			Name:     m.Name,
			Role:     models.Role(m.Role),
			JoinedAt: now,
		})
	}
	if err := s.store.SaveGroup(ctx, group); err != nil {
		return nil, apperr.Internal(err)
	}
	return group, nil
}

// Delete removes a group and everything it owns. Admin only.
func (s *GroupService) Delete(ctx context.Context, kind models.GroupKind, groupID, callerEmail string) error {
	if _, err := s.guard.LoadGroup(ctx, kind, groupID, callerEmail, true); err != nil {
		return err
	}
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return apperr.Internal(err)
	}
	slog.Info("group deleted", "group_id", groupID, "kind", kind)
	return nil
}
