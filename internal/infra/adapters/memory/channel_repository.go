package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// channelRepository is an in-memory ChannelRepository with the same
// semantics as the Postgres adapter: snapshots are copies, mutations apply
// atomically under the lock with idempotent set writes.
type channelRepository struct {
	channels map[uuid.UUID]*models.Channel

	mu sync.RWMutex
}

func NewChannelRepository() repository.ChannelRepository {
	return &channelRepository{
		channels: make(map[uuid.UUID]*models.Channel),
	}
}

func (r *channelRepository) Create(_ context.Context, channel *models.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[channel.ID] = channel.Clone()

	return nil
}

func (r *channelRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "channel not found")
	}

	return channel.Clone(), nil
}

func (r *channelRepository) GetByInviteCode(_ context.Context, code string) (*models.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if code != "" {
		for _, channel := range r.channels {
			if channel.InviteCode == code {
				return channel.Clone(), nil
			}
		}
	}

	return nil, apperrors.New(apperrors.KindNotFound, "channel not found")
}

func (r *channelRepository) ApplyMutation(_ context.Context, mut *models.ChannelMutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, ok := r.channels[mut.ChannelID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "channel not found")
	}

	mut.Apply(channel)

	return nil
}

func (r *channelRepository) GetChannelsByUserID(_ context.Context, userID uuid.UUID) ([]*models.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var channels []*models.Channel

	for _, channel := range r.channels {
		if !channel.Deleted && channel.Members.Has(userID) {
			channels = append(channels, channel.Clone())
		}
	}

	return channels, nil
}

func (r *channelRepository) GetPublicChannels(_ context.Context) ([]*models.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var channels []*models.Channel

	for _, channel := range r.channels {
		if !channel.Deleted && channel.Visibility == models.VisibilityPublic {
			channels = append(channels, channel.Clone())
		}
	}

	return channels, nil
}
