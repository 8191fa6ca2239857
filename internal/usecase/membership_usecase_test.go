package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
)

func TestInviteAcceptFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.Invite(ctx, owner, channel.ID, casey.Contact)
	require.NoError(t, err)

	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleInvited, res.Role)

	updated, err := f.membership.AcceptInvite(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, updated.Members.Has(casey.ID))
	assert.False(t, updated.InvitedContacts.Has(casey.Contact), "accepting consumes the invite")
}

func TestInviteRequiresContact(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.Invite(context.Background(), owner, channel.ID, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestInviteRequiresCapability(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	stranger := identity("stranger@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.Invite(context.Background(), stranger, channel.ID, "casey@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestInviteExistingMemberIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	require.NoError(t, f.userRepo.CreateUser(ctx, &models.User{ID: casey.ID, Username: "casey", Contact: casey.Contact}))
	f.mustJoin(casey, channel.ID)

	updated, err := f.membership.Invite(ctx, owner, channel.ID, casey.Contact)
	require.NoError(t, err)
	assert.False(t, updated.InvitedContacts.Has(casey.Contact), "no invite recorded for an existing member")
}

func TestAcceptWithoutInvite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.AcceptInvite(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestAcceptWhenAlreadyMember(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.AcceptInvite(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadyMember))
}

func TestAcceptAfterJoiningAnotherWayClearsInvite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.Invite(ctx, owner, channel.ID, casey.Contact)
	require.NoError(t, err)
	f.mustJoin(casey, channel.ID)

	updated, err := f.membership.AcceptInvite(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, updated.Members.Has(casey.ID))
	assert.False(t, updated.InvitedContacts.Has(casey.Contact))
}

func TestDeclineInvite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.Invite(ctx, owner, channel.ID, casey.Contact)
	require.NoError(t, err)

	updated, err := f.membership.DeclineInvite(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.False(t, updated.InvitedContacts.Has(casey.Contact))
	assert.False(t, updated.Members.Has(casey.ID))

	_, err = f.membership.DeclineInvite(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "nothing left to decline")
}

func TestRedeemInviteCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)
	require.NotEmpty(t, channel.InviteCode)

	updated, err := f.membership.RedeemInviteCode(ctx, casey, channel.InviteCode)
	require.NoError(t, err)
	assert.True(t, updated.Members.Has(casey.ID))

	// Redeeming again is a no-op success.
	again, err := f.membership.RedeemInviteCode(ctx, casey, channel.InviteCode)
	require.NoError(t, err)
	assert.True(t, again.Members.Has(casey.ID))
}

func TestRedeemUnknownCode(t *testing.T) {
	f := newFixture()

	_, err := f.membership.RedeemInviteCode(context.Background(), identity(""), "nosuchcode")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRedeemExpiredCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	past := time.Now().Add(-time.Hour)
	_, err := f.channels.SetInviteExpiry(ctx, owner, channel.ID, &past)
	require.NoError(t, err)

	_, err = f.membership.RedeemInviteCode(ctx, casey, channel.InviteCode)
	assert.True(t, apperrors.IsKind(err, apperrors.KindExpiredInvite))
}

func TestRedeemRejectedForBanned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.RedeemInviteCode(ctx, casey, channel.InviteCode)
	require.NoError(t, err)
	_, err = f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	_, err = f.membership.RedeemInviteCode(ctx, casey, channel.InviteCode)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestRedeemInertOnPublicChannel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)
	code := channel.InviteCode

	_, err := f.channels.SetVisibility(ctx, owner, channel.ID, models.VisibilityPublic)
	require.NoError(t, err)

	// The code string survives the switch but cannot be redeemed.
	_, err = f.membership.RedeemInviteCode(ctx, casey, code)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestAutoJoin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	updated, err := f.membership.AutoJoin(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, updated.Members.Has(casey.ID))

	// Idempotent.
	again, err := f.membership.AutoJoin(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, again.Members.Has(casey.ID))
}

func TestAutoJoinRejectedForPrivate(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	_, err := f.membership.AutoJoin(context.Background(), identity(""), channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestAutoJoinRejectedForBanned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	_, err = f.membership.AutoJoin(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestLeave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.PromoteAdmin(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)
	_, err = f.membership.Mute(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)

	updated, err := f.membership.Leave(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.False(t, updated.Members.Has(casey.ID))
	assert.False(t, updated.Admins.Has(casey.ID))
	assert.False(t, updated.MutedUsers.Has(casey.ID))

	_, err = f.membership.Leave(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "already gone")
}

func TestOwnerCannotLeave(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.Leave(context.Background(), owner, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestPromoteAndDemoteAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	updated, err := f.membership.PromoteAdmin(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)
	assert.True(t, updated.Admins.Has(casey.ID))

	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleAdmin, res.Role)

	updated, err = f.membership.DemoteAdmin(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)
	assert.False(t, updated.Admins.Has(casey.ID))
	assert.True(t, updated.Members.Has(casey.ID), "demotion keeps membership")
}

func TestOwnerCannotBeDemoted(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.DemoteAdmin(context.Background(), owner, channel.ID, owner.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestMuteSuppressesPosting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.Mute(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)

	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleMember, res.Role, "muted user stays a member")
	assert.False(t, res.Capabilities.Has(role.CapPost))
	assert.True(t, res.Capabilities.Has(role.CapView))

	_, err = f.membership.Unmute(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)

	res, err = f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, res.Capabilities.Has(role.CapPost))
}

func TestOwnerCannotBeMuted(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.Mute(context.Background(), owner, channel.ID, owner.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestBanKeepsSetsDisjoint(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.PromoteAdmin(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)

	result, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)
	assert.False(t, result.AuditDegraded)

	updated := result.Channel
	assert.True(t, updated.BannedUsers.Has(casey.ID))
	assert.False(t, updated.Members.Has(casey.ID))
	assert.False(t, updated.Admins.Has(casey.ID))
	assert.False(t, updated.MutedUsers.Has(casey.ID))

	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleBanned, res.Role)
	assert.Equal(t, role.Capability(0), res.Capabilities)
}

func TestBanWritesAuditRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	records, err := f.audit.ListBanHistory(ctx, owner, channel.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, casey.ID, records[0].UserID)
	assert.Equal(t, owner.ID, records[0].IssuedBy)
	assert.Equal(t, "spam", records[0].Reason)
}

func TestBanRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	member := identity("member@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)
	f.mustJoin(member, channel.ID)

	_, err := f.membership.Ban(ctx, member, channel.ID, casey.ID, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized), "plain members cannot ban")

	_, err = f.membership.Ban(ctx, owner, channel.ID, owner.ID, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "owner cannot be banned")

	_, err = f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)
	_, err = f.membership.Ban(ctx, owner, channel.ID, casey.ID, "again")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "double ban")
}

func TestUnban(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	updated, err := f.membership.Unban(ctx, owner, channel.ID, casey.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.BannedUsers.Has(casey.ID))
	assert.False(t, updated.Members.Has(casey.ID), "no restore requested")

	_, err = f.membership.Unban(ctx, owner, channel.ID, casey.ID, false)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "not banned anymore")
}

func TestUnbanWithRestore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	updated, err := f.membership.Unban(ctx, owner, channel.ID, casey.ID, true)
	require.NoError(t, err)
	assert.False(t, updated.BannedUsers.Has(casey.ID))
	assert.True(t, updated.Members.Has(casey.ID))
}

func TestRemoveAllowsRejoining(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	updated, err := f.membership.Remove(ctx, owner, channel.ID, casey.ID)
	require.NoError(t, err)
	assert.False(t, updated.Members.Has(casey.ID))
	assert.False(t, updated.BannedUsers.Has(casey.ID), "removal is not a ban")

	// Removed from a public channel, the user may walk right back in.
	rejoined, err := f.membership.AutoJoin(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.True(t, rejoined.Members.Has(casey.ID))
}

func TestRemoveOwnerRejected(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.Remove(context.Background(), owner, channel.ID, owner.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestDeletedChannelBlocksTransitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.channels.SoftDelete(ctx, owner, channel.ID)
	require.NoError(t, err)

	_, err = f.membership.Invite(ctx, owner, channel.ID, "new@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = f.membership.AutoJoin(ctx, identity(""), channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = f.membership.Leave(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	// Role resolution still works on the frozen snapshot.
	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleMember, res.Role)
}

func TestModerationTargetMustBeMember(t *testing.T) {
	f := newFixture()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)

	_, err := f.membership.PromoteAdmin(context.Background(), owner, channel.ID, uuid.New())
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

// The run-club scenario: a private channel whose organizer invites a
// runner, rotates the code after a leak, and bans a spammer who keeps an
// audit trail entry.
func TestRunClubScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	organizer := identity("organizer@example.com")
	runner := identity("runner@example.com")
	spammer := identity("spammer@example.com")

	channel := f.mustCreateChannel(organizer, "riverfront-run-club", models.VisibilityPrivate)
	leakedCode := channel.InviteCode

	_, err := f.membership.Invite(ctx, organizer, channel.ID, runner.Contact)
	require.NoError(t, err)
	_, err = f.membership.AcceptInvite(ctx, runner, channel.ID)
	require.NoError(t, err)

	_, err = f.membership.RedeemInviteCode(ctx, spammer, leakedCode)
	require.NoError(t, err)

	// The code leaked; rotate it. The old string is now dead.
	rotated, err := f.channels.RotateInviteCode(ctx, organizer, channel.ID)
	require.NoError(t, err)
	assert.NotEqual(t, leakedCode, rotated.InviteCode)

	_, err = f.membership.RedeemInviteCode(ctx, identity(""), leakedCode)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	result, err := f.membership.Ban(ctx, organizer, channel.ID, spammer.ID, "flooding the feed")
	require.NoError(t, err)
	assert.True(t, result.Channel.BannedUsers.Has(spammer.ID))

	// Even with the new code in hand the spammer stays out.
	_, err = f.membership.RedeemInviteCode(ctx, spammer, rotated.InviteCode)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	records, err := f.audit.ListBanHistory(ctx, organizer, channel.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "flooding the feed", records[0].Reason)

	res, err := f.membership.Resolve(ctx, runner, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleMember, res.Role)
}
