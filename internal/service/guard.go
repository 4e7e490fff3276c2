// Package service holds the transport-agnostic application logic. Services
// load snapshots from storage, authorize the caller through the shared
// guard, run the ledger computations, and return domain values or apperr
// errors for the HTTP layer to translate.
package service

import (
	"context"
	"log/slog"

	"hallmate/internal/apperr"
	"hallmate/internal/models"
	"hallmate/internal/storage"
)

// Guard is the single membership/role gatekeeper. Every mutating group
// operation goes through it; no handler re-implements the checks inline.
type Guard struct {
	store storage.Store
}

// NewGuard creates a guard backed by the given store.
func NewGuard(store storage.Store) *Guard {
	return &Guard{store: store}
}

// Authorize checks the caller against an already-loaded group. Admin access
// is granted to the creator or to any member holding the admin role.
func Authorize(group *models.Group, email string, requireAdmin bool) error {
	if group == nil {
		return apperr.NotFound("group not found")
	}
	email = models.NormalizeEmail(email)
	if !group.IsMember(email) {
		return apperr.Forbidden("not a member of this group")
	}
	if requireAdmin {
		isCreator := models.NormalizeEmail(group.CreatedBy) == email
		if !isCreator && !group.IsAdmin(email) {
			return apperr.Forbidden("only creator or admin can perform this action")
		}
	}
	return nil
}

// LoadGroup fetches a group of the expected kind and authorizes the caller.
func (g *Guard) LoadGroup(ctx context.Context, kind models.GroupKind, groupID, email string, requireAdmin bool) (*models.Group, error) {
	if groupID == "" {
		return nil, apperr.InvalidInput("group id is required")
	}
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if group == nil || group.Kind != kind {
		return nil, apperr.NotFound("group not found")
	}
	if err := Authorize(group, email, requireAdmin); err != nil {
		return nil, err
	}
	return group, nil
}

// EnsureMembers appends any unknown emails to the group as plain members and
// saves when something changed. Idempotent; called explicitly before any
// event that may reference new participants, so group growth is frictionless
// and never hidden inside a lookup.
func (g *Guard) EnsureMembers(ctx context.Context, group *models.Group, emails ...string) error {
	added := false
	for _, raw := range emails {
		email := models.NormalizeEmail(raw)
		if email == "" || group.IsMember(email) {
			continue
		}
		group.Members = append(group.Members, models.Member{
			Email: email,
			Role:  models.RoleMember,
		})
		added = true
	}
	if !added {
		return nil
	}
	if err := g.store.SaveGroup(ctx, group); err != nil {
		return apperr.Internal(err)
	}
	slog.Info("members auto-added", "group_id", group.ID, "members_count", len(group.Members))
	return nil
}
