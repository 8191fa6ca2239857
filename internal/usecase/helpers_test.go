package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/memory"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// fixture wires the engine against the in-memory adapters.
type fixture struct {
	channelRepo   repository.ChannelRepository
	userRepo      repository.UserRepository
	banRecordRepo repository.BanRecordRepository
	postRepo      repository.PostRepository
	eventRepo     repository.EventRepository

	audit      AuditUsecase
	membership MembershipUsecase
	channels   ChannelUsecase
	posts      PostUsecase
	events     EventUsecase
}

func newFixture() *fixture {
	f := &fixture{
		channelRepo:   memory.NewChannelRepository(),
		userRepo:      memory.NewUserRepository(),
		banRecordRepo: memory.NewBanRecordRepository(),
		postRepo:      memory.NewPostRepository(),
		eventRepo:     memory.NewEventRepository(),
	}

	f.audit = NewAuditUsecase(f.banRecordRepo, f.channelRepo)
	f.membership = NewMembershipUsecase(f.channelRepo, f.userRepo, f.audit, NoopNotifier{})
	f.channels = NewChannelUsecase(f.channelRepo, NoopNotifier{})
	f.posts = NewPostUsecase(f.postRepo, f.channelRepo, f.membership)
	f.events = NewEventUsecase(f.eventRepo, f.channelRepo, f.membership)

	return f
}

func (f *fixture) mustCreateChannel(owner models.Identity, name string, visibility models.Visibility) *models.Channel {
	channel, err := f.channels.CreateChannel(context.Background(), owner, &input.CreateChannelInput{
		Name:       name,
		Visibility: visibility,
	})
	if err != nil {
		panic(err)
	}

	return channel
}

func (f *fixture) mustJoin(user models.Identity, channelID uuid.UUID) {
	if _, err := f.membership.AutoJoin(context.Background(), user, channelID); err != nil {
		panic(err)
	}
}

func identity(contact string) models.Identity {
	return models.Identity{ID: uuid.New(), Contact: contact}
}

// failingBanRecordRepo rejects every append, for audit degradation tests.
type failingBanRecordRepo struct{}

func (failingBanRecordRepo) Append(context.Context, *models.BanRecord) error {
	return errors.New("connection refused")
}

func (failingBanRecordRepo) ListByChannel(context.Context, uuid.UUID) ([]*models.BanRecord, error) {
	return nil, errors.New("connection refused")
}
