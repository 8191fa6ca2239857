package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/domain/invitecode"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// ChannelUsecase owns the channel lifecycle: creation, privacy toggling,
// invite-code rotation and soft deletion.
type ChannelUsecase interface {
	CreateChannel(ctx context.Context, actor models.Identity, in *input.CreateChannelInput) (*models.Channel, error)
	GetChannel(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error)
	GetChannelsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Channel, error)
	GetPublicChannels(ctx context.Context) ([]*models.Channel, error)

	SetVisibility(ctx context.Context, actor models.Identity, channelID uuid.UUID, visibility models.Visibility) (*models.Channel, error)
	SetInviteExpiry(ctx context.Context, actor models.Identity, channelID uuid.UUID, expiry *time.Time) (*models.Channel, error)
	RotateInviteCode(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error)
	SoftDelete(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error)
}

type channelUsecase struct {
	channelRepo repository.ChannelRepository
	notifier    ChannelNotifier
}

func NewChannelUsecase(channelRepo repository.ChannelRepository, notifier ChannelNotifier) ChannelUsecase {
	return &channelUsecase{
		channelRepo: channelRepo,
		notifier:    notifier,
	}
}

func (uc *channelUsecase) CreateChannel(ctx context.Context, actor models.Identity, in *input.CreateChannelInput) (*models.Channel, error) {
	if in.Name == "" {
		return nil, apperrors.New(apperrors.KindInvalidState, "name is required")
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, apperrors.New(apperrors.KindInvalidState, "unknown visibility")
	}

	channel := models.NewChannel(actor.ID, in.Name, in.Description, visibility)
	if visibility == models.VisibilityPrivate {
		channel.InviteCode = invitecode.Generate()
	}

	if err := uc.channelRepo.Create(ctx, channel); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	if uc.notifier != nil {
		uc.notifier.PublishChannel(channel)
	}

	return channel, nil
}

func (uc *channelUsecase) GetChannel(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapView); err != nil {
		return nil, err
	}

	return channel, nil
}

func (uc *channelUsecase) GetChannelsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Channel, error) {
	return uc.channelRepo.GetChannelsByUserID(ctx, userID)
}

func (uc *channelUsecase) GetPublicChannels(ctx context.Context) ([]*models.Channel, error) {
	return uc.channelRepo.GetPublicChannels(ctx)
}

// SetVisibility toggles the privacy of a channel. Going private generates
// an invite code only when none exists; going public leaves any code in
// place, where it is inert until the channel turns private again.
func (uc *channelUsecase) SetVisibility(ctx context.Context, actor models.Identity, channelID uuid.UUID, visibility models.Visibility) (*models.Channel, error) {
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, apperrors.New(apperrors.KindInvalidState, "unknown visibility")
	}

	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapManage); err != nil {
		return nil, err
	}

	if channel.Visibility == visibility {
		return channel, nil
	}

	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		SetVisibility: &visibility,
	}

	if visibility == models.VisibilityPrivate && channel.InviteCode == "" {
		code := invitecode.Generate()
		mut.SetInviteCode = &code
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "set_visibility", channel, mut)
}

// SetInviteExpiry attaches advisory expiry metadata to the invite code; it
// is consumed at redemption time. A nil expiry clears it.
func (uc *channelUsecase) SetInviteExpiry(ctx context.Context, actor models.Identity, channelID uuid.UUID, expiry *time.Time) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapManage); err != nil {
		return nil, err
	}

	mut := &models.ChannelMutation{ChannelID: channelID}
	if expiry != nil {
		mut.SetInviteCodeExpiry = expiry
	} else {
		mut.ClearInviteCodeExpiry = true
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "set_invite_expiry", channel, mut)
}

// RotateInviteCode replaces the code unconditionally; the old code becomes
// permanently invalid.
func (uc *channelUsecase) RotateInviteCode(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapManage); err != nil {
		return nil, err
	}

	if channel.Visibility != models.VisibilityPrivate {
		return nil, apperrors.New(apperrors.KindInvalidState, "public channels have no invite code")
	}

	code := invitecode.Generate()
	mut := &models.ChannelMutation{
		ChannelID:     channelID,
		SetInviteCode: &code,
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "rotate_invite_code", channel, mut)
}

// SoftDelete is terminal: the channel stays readable but accepts no
// further membership mutation. Deleting twice is a no-op.
func (uc *channelUsecase) SoftDelete(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if channel.Deleted {
		return channel, nil
	}

	if err := requireCapability(channel, actor, role.CapManage); err != nil {
		return nil, err
	}

	mut := &models.ChannelMutation{
		ChannelID: channelID,
		SetDeleted: &models.DeletionMark{
			At: time.Now().UTC(),
			By: actor.ID,
		},
	}

	return applyMutation(ctx, uc.channelRepo, uc.notifier, "soft_delete", channel, mut)
}
