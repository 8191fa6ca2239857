package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// BanResult is the outcome of a Ban: the updated snapshot plus a flag set
// when the audit record could not be persisted. A degraded audit is a
// warning, not a failure; the ban itself stands.
type BanResult struct {
	Channel       *models.Channel
	AuditDegraded bool
}

// MembershipUsecase is the membership transition engine: it validates and
// applies every state change of a (channel, user) pair.
//
// Each transition is expressed as commutative, duplicate-safe set
// operations committed in one combined write, so concurrent transitions
// on different users never conflict and any transition is safe to
// resubmit. Transitions racing on the same user resolve by the store's
// native conflict handling; scalars are last-writer-wins.
type MembershipUsecase interface {
	Invite(ctx context.Context, actor models.Identity, channelID uuid.UUID, contact string) (*models.Channel, error)
	AcceptInvite(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error)
	DeclineInvite(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error)
	RedeemInviteCode(ctx context.Context, user models.Identity, code string) (*models.Channel, error)
	AutoJoin(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error)
	Leave(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error)

	PromoteAdmin(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error)
	DemoteAdmin(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error)
	Mute(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error)
	Unmute(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error)
	Ban(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID, reason string) (*BanResult, error)
	Unban(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID, restoreMembership bool) (*models.Channel, error)
	Remove(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error)

	Resolve(ctx context.Context, user models.Identity, channelID uuid.UUID) (role.Resolution, error)
}

type membershipUsecase struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
	audit       AuditUsecase
	notifier    ChannelNotifier
}

func NewMembershipUsecase(
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	audit AuditUsecase,
	notifier ChannelNotifier,
) MembershipUsecase {
	return &membershipUsecase{
		channelRepo: channelRepo,
		userRepo:    userRepo,
		audit:       audit,
		notifier:    notifier,
	}
}

func (uc *membershipUsecase) Invite(ctx context.Context, actor models.Identity, channelID uuid.UUID, contact string) (*models.Channel, error) {
	if contact == "" {
		return nil, apperrors.New(apperrors.KindInvalidState, "contact is required")
	}

	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapInvite); err != nil {
		return nil, err
	}

	// No-op when the contact already belongs to a member.
	if uc.userRepo != nil {
		if user, err := uc.userRepo.GetUserByContact(ctx, contact); err == nil && channel.Members.Has(user.ID) {
			return channel, nil
		}
	}

	mut := &models.ChannelMutation{
		ChannelID:  channelID,
		AddInvites: []string{contact},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "invite", channel, mut)
}

func (uc *membershipUsecase) AcceptInvite(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	invited := user.Contact != "" && channel.InvitedContacts.Has(user.Contact)

	if channel.Members.Has(user.ID) {
		if !invited {
			return nil, apperrors.New(apperrors.KindAlreadyMember, "already a member")
		}

		// Already joined through another path; just clear the invite.
		mut := &models.ChannelMutation{
			ChannelID:     channelID,
			RemoveInvites: []string{user.Contact},
		}

		return applyMutation(ctx, uc.channelRepo, uc.notifier, "accept_invite", channel, mut)
	}

	if !invited {
		return nil, apperrors.New(apperrors.KindInvalidState, "no pending invite for this contact")
	}

	if channel.BannedUsers.Has(user.ID) {
		return nil, apperrors.New(apperrors.KindUnauthorized, "banned users cannot join")
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		AddMembers:    []uuid.UUID{user.ID},
		RemoveInvites: []string{user.Contact},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "accept_invite", channel, mut)
}

func (uc *membershipUsecase) DeclineInvite(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if user.Contact == "" || !channel.InvitedContacts.Has(user.Contact) {
		return nil, apperrors.New(apperrors.KindInvalidState, "no pending invite for this contact")
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		RemoveInvites: []string{user.Contact},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "decline_invite", channel, mut)
}

// RedeemInviteCode exchanges a private channel's invite code for
// membership. This is the accept step of the code path, so expiry is
// enforced here; direct-contact invites never expire.
func (uc *membershipUsecase) RedeemInviteCode(ctx context.Context, user models.Identity, code string) (*models.Channel, error) {
	channel, err := uc.channelRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if channel.Deleted {
		return nil, apperrors.New(apperrors.KindInvalidState, "channel is deleted")
	}

	// A second redemption is a no-op success, not an error.
	if channel.Members.Has(user.ID) {
		return channel, nil
	}

	if channel.Visibility != models.VisibilityPrivate {
		// The code string survives a switch to public but is inert.
		return nil, apperrors.New(apperrors.KindInvalidState, "invite code is inert for public channels")
	}

	if channel.BannedUsers.Has(user.ID) {
		return nil, apperrors.New(apperrors.KindUnauthorized, "banned users cannot join")
	}

	if channel.InviteCodeExpired(time.Now()) {
		return nil, apperrors.New(apperrors.KindExpiredInvite, "invite code has expired")
	}

	mut := &models.ChannelMutation{
		ChannelID:  channel.ID,
		AddMembers: []uuid.UUID{user.ID},
	}
	if user.Contact != "" && channel.InvitedContacts.Has(user.Contact) {
		mut.RemoveInvites = []string{user.Contact}
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "redeem_invite_code", channel, mut)
}

// AutoJoin grants membership as a side effect of a content-producing
// interaction in a public channel. It is idempotent and never runs for
// private channels or banned users.
func (uc *membershipUsecase) AutoJoin(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if channel.Members.Has(user.ID) {
		return channel, nil
	}

	if channel.Visibility != models.VisibilityPublic {
		return nil, apperrors.New(apperrors.KindInvalidState, "auto-join only applies to public channels")
	}

	if channel.BannedUsers.Has(user.ID) {
		return nil, apperrors.New(apperrors.KindUnauthorized, "banned users cannot join")
	}

	mut := &models.ChannelMutation{
		ChannelID:  channelID,
		AddMembers: []uuid.UUID{user.ID},
	}
	if user.Contact != "" && channel.InvitedContacts.Has(user.Contact) {
		mut.RemoveInvites = []string{user.Contact}
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "auto_join", channel, mut)
}

func (uc *membershipUsecase) Leave(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if !channel.Members.Has(user.ID) {
		return nil, apperrors.New(apperrors.KindInvalidState, "not a member")
	}

	if user.ID == channel.OwnerID {
		return nil, apperrors.New(apperrors.KindInvalidState, "owner cannot leave their own channel")
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		RemoveMembers: []uuid.UUID{user.ID},
		RemoveAdmins:  []uuid.UUID{user.ID},
		RemoveMuted:   []uuid.UUID{user.ID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "leave", channel, mut)
}

func (uc *membershipUsecase) PromoteAdmin(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.manageableTarget(ctx, actor, channelID, targetID)
	if err != nil {
		return nil, err
	}

	mut := &models.ChannelMutation{
		ChannelID: channelID,
		AddAdmins: []uuid.UUID{targetID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "promote_admin", channel, mut)
}

func (uc *membershipUsecase) DemoteAdmin(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.manageableTarget(ctx, actor, channelID, targetID)
	if err != nil {
		return nil, err
	}

	if targetID == channel.OwnerID {
		return nil, apperrors.New(apperrors.KindInvalidState, "owner cannot be demoted")
	}

	mut := &models.ChannelMutation{
		ChannelID:    channelID,
		RemoveAdmins: []uuid.UUID{targetID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "demote_admin", channel, mut)
}

func (uc *membershipUsecase) Mute(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.moderatableTarget(ctx, actor, channelID, targetID)
	if err != nil {
		return nil, err
	}

	if targetID == channel.OwnerID {
		return nil, apperrors.New(apperrors.KindInvalidState, "owner cannot be muted")
	}

	mut := &models.ChannelMutation{
		ChannelID: channelID,
		AddMuted:  []uuid.UUID{targetID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "mute", channel, mut)
}

func (uc *membershipUsecase) Unmute(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.moderatableTarget(ctx, actor, channelID, targetID)
	if err != nil {
		return nil, err
	}

	mut := &models.ChannelMutation{
		ChannelID:   channelID,
		RemoveMuted: []uuid.UUID{targetID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "unmute", channel, mut)
}

// Ban atomically moves the target out of members, admins and muted and
// into the banned set, then records the action on the audit trail. A lost
// audit record does not roll the ban back.
func (uc *membershipUsecase) Ban(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID, reason string) (*BanResult, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapModerate); err != nil {
		return nil, err
	}

	if targetID == channel.OwnerID {
		return nil, apperrors.New(apperrors.KindInvalidState, "owner cannot be banned")
	}

	if channel.BannedUsers.Has(targetID) {
		return nil, apperrors.New(apperrors.KindInvalidState, "target already banned")
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		RemoveMembers: []uuid.UUID{targetID},
		RemoveAdmins:  []uuid.UUID{targetID},
		RemoveMuted:   []uuid.UUID{targetID},
		AddBanned:     []uuid.UUID{targetID},
	}

	channel, err = applyMutation(ctx, uc.channelRepo, uc.notifier, "ban", channel, mut)
	if err != nil {
		return nil, err
	}

	status := uc.audit.Record(ctx, &models.BanRecord{
		ChannelID: channelID,
		UserID:    targetID,
		IssuedBy:  actor.ID,
		Reason:    reason,
		IssuedAt:  time.Now().UTC(),
	})

	return &BanResult{
		Channel:       channel,
		AuditDegraded: status == AuditDegraded,
	}, nil
}

func (uc *membershipUsecase) Unban(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID, restoreMembership bool) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapModerate); err != nil {
		return nil, err
	}

	if !channel.BannedUsers.Has(targetID) {
		return nil, apperrors.New(apperrors.KindInvalidState, "target is not banned")
	}

	mut := &models.ChannelMutation{
		ChannelID:    channelID,
		RemoveBanned: []uuid.UUID{targetID},
	}
	if restoreMembership {
		mut.AddMembers = []uuid.UUID{targetID}
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "unban", channel, mut)
}

// Remove takes the target out of the channel without banning; they may
// rejoin a public channel or be re-invited to a private one.
func (uc *membershipUsecase) Remove(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.manageableTarget(ctx, actor, channelID, targetID)
	if err != nil {
		return nil, err
	}

	if targetID == channel.OwnerID {
		return nil, apperrors.New(apperrors.KindInvalidState, "owner cannot be removed")
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		RemoveMembers: []uuid.UUID{targetID},
		RemoveAdmins:  []uuid.UUID{targetID},
		RemoveMuted:   []uuid.UUID{targetID},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "remove", channel, mut)
}

// Resolve is the read-side role query. It works on deleted channels too:
// resolution is a pure function of the snapshot.
func (uc *membershipUsecase) Resolve(ctx context.Context, user models.Identity, channelID uuid.UUID) (role.Resolution, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return role.Resolution{}, err
	}

	return role.Resolve(channel, user.ID, user.Contact), nil
}

func (uc *membershipUsecase) manageableTarget(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	return uc.loadTarget(ctx, actor, channelID, targetID, role.CapManage)
}

func (uc *membershipUsecase) moderatableTarget(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error) {
	return uc.loadTarget(ctx, actor, channelID, targetID, role.CapModerate)
}

func (uc *membershipUsecase) loadTarget(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID, need role.Capability) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, need); err != nil {
		return nil, err
	}

	if !channel.Members.Has(targetID) {
		return nil, apperrors.New(apperrors.KindInvalidState, "target is not a member")
	}

	return channel, nil
}
