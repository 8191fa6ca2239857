package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

type eventRepository struct {
	events    map[uuid.UUID]*models.Event
	attendees map[uuid.UUID]models.UserSet

	mu sync.Mutex
}

func NewEventRepository() repository.EventRepository {
	return &eventRepository{
		events:    make(map[uuid.UUID]*models.Event),
		attendees: make(map[uuid.UUID]models.UserSet),
	}
}

func (r *eventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	r.events[event.ID] = &stored
	r.attendees[event.ID] = models.UserSet{}

	return nil
}

func (r *eventRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "event not found")
	}

	stored := *event

	return &stored, nil
}

func (r *eventRepository) ListByChannel(_ context.Context, channelID uuid.UUID) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []*models.Event

	for _, event := range r.events {
		if event.ChannelID == channelID {
			stored := *event
			events = append(events, &stored)
		}
	}

	return events, nil
}

func (r *eventRepository) AddAttendee(_ context.Context, eventID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.attendees[eventID]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "event not found")
	}

	set.Add(userID)

	return nil
}

func (r *eventRepository) ListAttendees(_ context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.attendees[eventID]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "event not found")
	}

	return set.IDs(), nil
}
