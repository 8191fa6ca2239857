package role

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/commune-hq/commune/internal/domain/models"
)

func newChannel(visibility models.Visibility) (*models.Channel, uuid.UUID) {
	owner := uuid.New()
	return models.NewChannel(owner, "trail-talk", "", visibility), owner
}

func TestResolvePrecedence(t *testing.T) {
	channel, owner := newChannel(models.VisibilityPrivate)

	admin := uuid.New()
	member := uuid.New()
	muted := uuid.New()
	banned := uuid.New()
	stranger := uuid.New()

	channel.Members.Add(admin)
	channel.Admins.Add(admin)
	channel.Members.Add(member)
	channel.Members.Add(muted)
	channel.MutedUsers.Add(muted)
	channel.BannedUsers.Add(banned)
	channel.InvitedContacts.Add("casey@example.com")

	tests := []struct {
		name     string
		userID   uuid.UUID
		contact  string
		wantRole Role
		wantCaps Capability
	}{
		{"owner", owner, "", RoleOwner, CapView | CapPost | CapInvite | CapManage | CapModerate | CapDeleteChannel},
		{"admin", admin, "", RoleAdmin, CapView | CapPost | CapInvite | CapManage | CapModerate},
		{"member", member, "", RoleMember, CapView | CapPost | CapInvite},
		{"muted member keeps view and invite", muted, "", RoleMember, CapView | CapInvite},
		{"banned", banned, "", RoleBanned, 0},
		{"invited contact", stranger, "casey@example.com", RoleInvited, CapView},
		{"stranger in private channel", stranger, "", RoleNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(channel, tt.userID, tt.contact)

			assert.Equal(t, tt.wantRole, res.Role)
			assert.Equal(t, tt.wantCaps, res.Capabilities)
		})
	}
}

func TestResolveBanOverridesEverything(t *testing.T) {
	channel, _ := newChannel(models.VisibilityPublic)

	// A user somehow present in every set still resolves as banned.
	userID := uuid.New()
	channel.Members.Add(userID)
	channel.Admins.Add(userID)
	channel.BannedUsers.Add(userID)

	res := Resolve(channel, userID, "")

	assert.Equal(t, RoleBanned, res.Role)
	assert.Equal(t, Capability(0), res.Capabilities)
	assert.False(t, res.Capabilities.Has(CapView))
}

func TestResolvePublicVisitor(t *testing.T) {
	channel, _ := newChannel(models.VisibilityPublic)

	res := Resolve(channel, uuid.New(), "")

	assert.Equal(t, RoleVisitor, res.Role)
	assert.True(t, res.Capabilities.Has(CapView))
	assert.True(t, res.Capabilities.Has(CapPost))
	assert.False(t, res.Capabilities.Has(CapInvite))
}

func TestResolveInviteBeatsVisitor(t *testing.T) {
	channel, _ := newChannel(models.VisibilityPublic)
	channel.InvitedContacts.Add("casey@example.com")

	res := Resolve(channel, uuid.New(), "casey@example.com")

	assert.Equal(t, RoleInvited, res.Role)
}

func TestCapabilityNames(t *testing.T) {
	caps := CapView | CapModerate

	assert.Equal(t, []string{"view", "moderate"}, caps.Names())
	assert.Empty(t, Capability(0).Names())
}
