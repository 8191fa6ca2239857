package models

import (
	"time"

	"github.com/google/uuid"
)

// DeletionMark records who soft-deleted a channel and when.
type DeletionMark struct {
	At time.Time
	By uuid.UUID
}

// ChannelMutation is one membership transition expressed as commutative
// set adds/removes plus optional last-writer-wins scalar updates.
//
// Set operations are duplicate-safe: adding a present element or removing
// an absent one is a no-op, so two callers racing on different users
// commute and a resubmitted transition cannot corrupt state. The
// persistence layer applies the whole mutation as one combined write.
type ChannelMutation struct {
	ChannelID uuid.UUID

	AddMembers    []uuid.UUID
	RemoveMembers []uuid.UUID

	AddAdmins    []uuid.UUID
	RemoveAdmins []uuid.UUID

	AddBanned    []uuid.UUID
	RemoveBanned []uuid.UUID

	AddMuted    []uuid.UUID
	RemoveMuted []uuid.UUID

	AddInvites    []string
	RemoveInvites []string

	SetVisibility *Visibility
	SetInviteCode *string

	SetInviteCodeExpiry   *time.Time
	ClearInviteCodeExpiry bool

	SetDeleted *DeletionMark
}

// IsZero reports whether the mutation changes nothing.
func (m *ChannelMutation) IsZero() bool {
	return len(m.AddMembers) == 0 && len(m.RemoveMembers) == 0 &&
		len(m.AddAdmins) == 0 && len(m.RemoveAdmins) == 0 &&
		len(m.AddBanned) == 0 && len(m.RemoveBanned) == 0 &&
		len(m.AddMuted) == 0 && len(m.RemoveMuted) == 0 &&
		len(m.AddInvites) == 0 && len(m.RemoveInvites) == 0 &&
		m.SetVisibility == nil && m.SetInviteCode == nil &&
		m.SetInviteCodeExpiry == nil && !m.ClearInviteCodeExpiry &&
		m.SetDeleted == nil
}

// Apply updates the in-memory snapshot with the same semantics the
// persistence layer uses: idempotent set writes, last-writer-wins scalars.
func (m *ChannelMutation) Apply(c *Channel) {
	for _, id := range m.AddMembers {
		c.Members.Add(id)
	}
	for _, id := range m.RemoveMembers {
		c.Members.Remove(id)
	}

	for _, id := range m.AddAdmins {
		c.Admins.Add(id)
	}
	for _, id := range m.RemoveAdmins {
		c.Admins.Remove(id)
	}

	for _, id := range m.AddBanned {
		c.BannedUsers.Add(id)
	}
	for _, id := range m.RemoveBanned {
		c.BannedUsers.Remove(id)
	}

	for _, id := range m.AddMuted {
		c.MutedUsers.Add(id)
	}
	for _, id := range m.RemoveMuted {
		c.MutedUsers.Remove(id)
	}

	for _, contact := range m.AddInvites {
		c.InvitedContacts.Add(contact)
	}
	for _, contact := range m.RemoveInvites {
		c.InvitedContacts.Remove(contact)
	}

	if m.SetVisibility != nil {
		c.Visibility = *m.SetVisibility
	}
	if m.SetInviteCode != nil {
		c.InviteCode = *m.SetInviteCode
	}
	if m.SetInviteCodeExpiry != nil {
		expiry := *m.SetInviteCodeExpiry
		c.InviteCodeExpiry = &expiry
	}
	if m.ClearInviteCodeExpiry {
		c.InviteCodeExpiry = nil
	}
	if m.SetDeleted != nil {
		c.Deleted = true
		at := m.SetDeleted.At
		by := m.SetDeleted.By
		c.DeletedAt = &at
		c.DeletedBy = &by
	}

	c.UpdatedAt = time.Now()
}
