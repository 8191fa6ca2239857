// Package role derives a user's effective role and capabilities from a
// channel snapshot. Roles are never persisted; the membership sets are the
// source of truth and every capability check in the system goes through
// Resolve so call sites cannot drift.
package role

import (
	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/models"
)

// Role is the effective standing of a user in one channel.
type Role int

const (
	RoleNone Role = iota
	RoleVisitor
	RoleInvited
	RoleMember
	RoleAdmin
	RoleOwner
	RoleBanned
)

func (r Role) String() string {
	switch r {
	case RoleVisitor:
		return "visitor"
	case RoleInvited:
		return "invited"
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	case RoleBanned:
		return "banned"
	default:
		return "none"
	}
}

// Capability is an atomic permission. A value is a set: capabilities
// combine with bitwise or.
type Capability uint8

const (
	CapView Capability = 1 << iota
	CapPost
	CapInvite
	CapManage
	CapModerate
	CapDeleteChannel
)

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Names returns the string labels of the capabilities in the set.
func (c Capability) Names() []string {
	names := make([]string, 0, 6)

	for _, entry := range []struct {
		cap  Capability
		name string
	}{
		{CapView, "view"},
		{CapPost, "post"},
		{CapInvite, "invite"},
		{CapManage, "manage"},
		{CapModerate, "moderate"},
		{CapDeleteChannel, "delete-channel"},
	} {
		if c.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}

	return names
}

// Resolution is the outcome of a role query.
type Resolution struct {
	Role         Role
	Capabilities Capability
}

// Resolve maps (channel state, user identity) to an effective role and
// capability set. Precedence, first match wins:
//
//	banned > owner > admin > member > invited > public visitor > none.
//
// A muted member keeps view and invite but loses post. A visitor to a
// public channel holds post in the auto-join sense: exercising it makes
// them a member first.
func Resolve(c *models.Channel, userID uuid.UUID, contact string) Resolution {
	switch {
	case c.BannedUsers.Has(userID):
		return Resolution{Role: RoleBanned}

	case userID == c.OwnerID:
		return Resolution{
			Role:         RoleOwner,
			Capabilities: CapView | CapPost | CapInvite | CapManage | CapModerate | CapDeleteChannel,
		}

	case c.Admins.Has(userID):
		return Resolution{
			Role:         RoleAdmin,
			Capabilities: CapView | CapPost | CapInvite | CapManage | CapModerate,
		}

	case c.Members.Has(userID):
		caps := CapView | CapPost | CapInvite
		if c.MutedUsers.Has(userID) {
			caps &^= CapPost
		}
		return Resolution{Role: RoleMember, Capabilities: caps}

	case contact != "" && c.InvitedContacts.Has(contact):
		return Resolution{Role: RoleInvited, Capabilities: CapView}

	case c.Visibility == models.VisibilityPublic:
		return Resolution{Role: RoleVisitor, Capabilities: CapView | CapPost}

	default:
		return Resolution{Role: RoleNone}
	}
}
