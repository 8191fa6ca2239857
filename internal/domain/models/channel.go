package models

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// UserSet is an unordered set of user identities.
type UserSet map[uuid.UUID]struct{}

func (s UserSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

func (s UserSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

func (s UserSet) Remove(id uuid.UUID) {
	delete(s, id)
}

func (s UserSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

func (s UserSet) Clone() UserSet {
	clone := make(UserSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}

// ContactSet is an unordered set of invitee contact identifiers.
type ContactSet map[string]struct{}

func (s ContactSet) Has(contact string) bool {
	_, ok := s[contact]
	return ok
}

func (s ContactSet) Add(contact string) {
	s[contact] = struct{}{}
}

func (s ContactSet) Remove(contact string) {
	delete(s, contact)
}

func (s ContactSet) Values() []string {
	values := make([]string, 0, len(s))
	for contact := range s {
		values = append(values, contact)
	}
	return values
}

func (s ContactSet) Clone() ContactSet {
	clone := make(ContactSet, len(s))
	for contact := range s {
		clone[contact] = struct{}{}
	}
	return clone
}

// Channel is the access-control snapshot of one community space.
//
// The membership sets are the source of truth; a user's role is always
// derived from them transiently and never persisted.
type Channel struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	OwnerID     uuid.UUID  `json:"owner_id" db:"owner_id"`

	Members         UserSet    `json:"-" db:"-"`
	Admins          UserSet    `json:"-" db:"-"`
	BannedUsers     UserSet    `json:"-" db:"-"`
	MutedUsers      UserSet    `json:"-" db:"-"`
	InvitedContacts ContactSet `json:"-" db:"-"`

	InviteCode       string     `json:"-" db:"invite_code"`
	InviteCodeExpiry *time.Time `json:"-" db:"invite_code_expires_at"`

	Deleted   bool       `json:"deleted" db:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty" db:"deleted_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewChannel creates a channel owned by ownerID with the owner as the only
// member and admin. Private channels get their invite code from the caller.
func NewChannel(ownerID uuid.UUID, name, description string, visibility Visibility) *Channel {
	now := time.Now()

	return &Channel{
		ID:              uuid.New(),
		Name:            name,
		Description:     description,
		Visibility:      visibility,
		OwnerID:         ownerID,
		Members:         UserSet{ownerID: {}},
		Admins:          UserSet{ownerID: {}},
		BannedUsers:     UserSet{},
		MutedUsers:      UserSet{},
		InvitedContacts: ContactSet{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// InviteCodeExpired reports whether the invite code is past its expiry.
// A code with no expiry never expires.
func (c *Channel) InviteCodeExpired(now time.Time) bool {
	return c.InviteCodeExpiry != nil && now.After(*c.InviteCodeExpiry)
}

// Clone returns a deep copy of the channel snapshot.
func (c *Channel) Clone() *Channel {
	clone := *c
	clone.Members = c.Members.Clone()
	clone.Admins = c.Admins.Clone()
	clone.BannedUsers = c.BannedUsers.Clone()
	clone.MutedUsers = c.MutedUsers.Clone()
	clone.InvitedContacts = c.InvitedContacts.Clone()

	if c.InviteCodeExpiry != nil {
		expiry := *c.InviteCodeExpiry
		clone.InviteCodeExpiry = &expiry
	}
	if c.DeletedAt != nil {
		at := *c.DeletedAt
		clone.DeletedAt = &at
	}
	if c.DeletedBy != nil {
		by := *c.DeletedBy
		clone.DeletedBy = &by
	}

	return &clone
}
