package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/application/metric"
	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// loadForTransition fetches a channel snapshot and rejects transitions on
// soft-deleted channels. Deletion is terminal: the failure is explicit,
// never a silent no-op.
func loadForTransition(ctx context.Context, repo repository.ChannelRepository, channelID uuid.UUID) (*models.Channel, error) {
	channel, err := repo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if channel.Deleted {
		return nil, apperrors.New(apperrors.KindInvalidState, "channel is deleted")
	}

	return channel, nil
}

// requireCapability resolves the actor's role and checks one capability.
func requireCapability(channel *models.Channel, actor models.Identity, need role.Capability) error {
	res := role.Resolve(channel, actor.ID, actor.Contact)
	if !res.Capabilities.Has(need) {
		return apperrors.New(apperrors.KindUnauthorized, fmt.Sprintf("role %s lacks required capability", res.Role))
	}

	return nil
}

// applyMutation commits one transition, updates the in-memory snapshot and
// publishes it to subscribers. The repository applies the whole mutation
// as a single combined write.
func applyMutation(
	ctx context.Context,
	repo repository.ChannelRepository,
	notifier ChannelNotifier,
	op string,
	channel *models.Channel,
	mut *models.ChannelMutation,
) (*models.Channel, error) {
	if err := repo.ApplyMutation(ctx, mut); err != nil {
		metric.RecordTransition(op, err)
		return nil, fmt.Errorf("apply %s: %w", op, err)
	}

	mut.Apply(channel)
	metric.RecordTransition(op, nil)

	if notifier != nil {
		notifier.PublishChannel(channel)
	}

	return channel, nil
}
