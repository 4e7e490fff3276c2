package models

import "strings"

// GroupKind distinguishes the two group families. They share membership
// semantics but own different kinds of financial records.
type GroupKind string

const (
	GroupKindSplit GroupKind = "split"
	GroupKindMeal  GroupKind = "meal"
)

// Role is a member's role within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// NormalizeEmail lowercases and trims an email so it can serve as a stable
// participant key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Member is one participant of a group, keyed by normalized email.
type Member struct {
	// Email is the normalized contact key, unique within the group.
	Email string `json:"email"`

	// Name is the optional display name.
	Name string `json:"name,omitempty"`

	// Role is either admin or member.
	Role Role `json:"role"`

	// JoinedAt is the Unix timestamp when the member was added.
	JoinedAt int64 `json:"joined_at"`
}

// Group is a named set of members. Kind decides which record types it owns.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Kind is split or meal.
	Kind GroupKind `json:"kind"`

	// Name is the display name (e.g., "Roommates", "Hall Kitchen").
	Name string `json:"name"`

	// CreatedBy is the email of the creating user, who becomes the first admin.
	CreatedBy string `json:"created_by"`

	// Members is the current membership. Order is insertion order.
	Members []Member `json:"members"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Normalize de-duplicates members by normalized email (first occurrence
// wins), coerces unknown roles to member, and guarantees at least one admin:
// if none remains, the creator is promoted, falling back to the first member.
// Called on every save so a group can never be persisted in a bad state.
func (g *Group) Normalize(now int64) {
	seen := make(map[string]bool, len(g.Members))
	kept := g.Members[:0]
	for _, m := range g.Members {
		email := NormalizeEmail(m.Email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		m.Email = email
		m.Name = strings.TrimSpace(m.Name)
		if m.Role != RoleAdmin {
			m.Role = RoleMember
		}
		if m.JoinedAt == 0 {
			m.JoinedAt = now
		}
		kept = append(kept, m)
	}
	g.Members = kept

	if len(g.Members) == 0 {
		return
	}
	for _, m := range g.Members {
		if m.Role == RoleAdmin {
			return
		}
	}
	creator := NormalizeEmail(g.CreatedBy)
	for i := range g.Members {
		if g.Members[i].Email == creator {
			g.Members[i].Role = RoleAdmin
			return
		}
	}
	g.Members[0].Role = RoleAdmin
}

// IsMember reports whether the email belongs to the group.
func (g *Group) IsMember(email string) bool {
	email = NormalizeEmail(email)
	for _, m := range g.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the email holds the admin role.
func (g *Group) IsAdmin(email string) bool {
	email = NormalizeEmail(email)
	for _, m := range g.Members {
		if m.Email == email && m.Role == RoleAdmin {
			return true
		}
	}
	return false
}

// MemberEmails returns the member keys in insertion order.
func (g *Group) MemberEmails() []string {
	emails := make([]string, len(g.Members))
	for i, m := range g.Members {
		emails[i] = m.Email
	}
	return emails
}
