package usecase

import "github.com/commune-hq/commune/internal/domain/models"

// ChannelNotifier delivers updated channel snapshots to subscribed
// clients. Publishing is best effort and must not block transitions.
type ChannelNotifier interface {
	PublishChannel(channel *models.Channel)
}

// NoopNotifier discards snapshots.
type NoopNotifier struct{}

func (NoopNotifier) PublishChannel(*models.Channel) {}
