package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// EventUsecase is the event boundary. RSVP is content-producing and so
// auto-joins visitors to public channels, the same as posting.
type EventUsecase interface {
	CreateEvent(ctx context.Context, actor models.Identity, channelID uuid.UUID, in *input.CreateEventInput) (*models.Event, error)
	ListEvents(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.Event, error)
	RSVP(ctx context.Context, actor models.Identity, eventID uuid.UUID) error
	ListAttendees(ctx context.Context, actor models.Identity, eventID uuid.UUID) ([]uuid.UUID, error)
}

type eventUsecase struct {
	eventRepo   repository.EventRepository
	channelRepo repository.ChannelRepository
	membership  MembershipUsecase
}

func NewEventUsecase(
	eventRepo repository.EventRepository,
	channelRepo repository.ChannelRepository,
	membership MembershipUsecase,
) EventUsecase {
	return &eventUsecase{
		eventRepo:   eventRepo,
		channelRepo: channelRepo,
		membership:  membership,
	}
}

func (uc *eventUsecase) CreateEvent(ctx context.Context, actor models.Identity, channelID uuid.UUID, in *input.CreateEventInput) (*models.Event, error) {
	channel, err := uc.joinableChannel(ctx, actor, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapPost); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, apperrors.New(apperrors.KindInvalidState, "title is required")
	}
	if in.StartsAt.IsZero() {
		return nil, apperrors.New(apperrors.KindInvalidState, "starts_at is required")
	}

	event := models.NewEvent(channelID, actor.ID, in.Title, in.Description, in.StartsAt)

	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

func (uc *eventUsecase) ListEvents(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.Event, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapView); err != nil {
		return nil, err
	}

	return uc.eventRepo.ListByChannel(ctx, channelID)
}

func (uc *eventUsecase) RSVP(ctx context.Context, actor models.Identity, eventID uuid.UUID) error {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	channel, err := uc.joinableChannel(ctx, actor, event.ChannelID)
	if err != nil {
		return err
	}

	if err := requireCapability(channel, actor, role.CapPost); err != nil {
		return err
	}

	if err := uc.eventRepo.AddAttendee(ctx, eventID, actor.ID); err != nil {
		return fmt.Errorf("rsvp: %w", err)
	}

	return nil
}

func (uc *eventUsecase) ListAttendees(ctx context.Context, actor models.Identity, eventID uuid.UUID) ([]uuid.UUID, error) {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	channel, err := uc.channelRepo.GetByID(ctx, event.ChannelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapView); err != nil {
		return nil, err
	}

	return uc.eventRepo.ListAttendees(ctx, eventID)
}

func (uc *eventUsecase) joinableChannel(ctx context.Context, actor models.Identity, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := loadForTransition(ctx, uc.channelRepo, channelID)
	if err != nil {
		return nil, err
	}

	if channel.Visibility == models.VisibilityPublic &&
		!channel.Members.Has(actor.ID) &&
		!channel.BannedUsers.Has(actor.ID) {
		channel, err = uc.membership.AutoJoin(ctx, actor, channelID)
		if err != nil {
			return nil, err
		}
	}

	return channel, nil
}
