package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.Event, error)

	// AddAttendee is idempotent: a duplicate RSVP is a no-op.
	AddAttendee(ctx context.Context, eventID, userID uuid.UUID) error
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type eventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *models.Event) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO events (id, channel_id, creator_id, title, description, starts_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.ChannelID,
		event.CreatorID,
		event.Title,
		event.Description,
		event.StartsAt,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event

	query := "SELECT id, channel_id, creator_id, title, description, starts_at, created_at FROM events WHERE id = $1"

	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.KindNotFound, "event not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &event, nil
}

func (r *eventRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.Event, error) {
	var events []*models.Event

	query := `
		SELECT id, channel_id, creator_id, title, description, starts_at, created_at
		FROM events
		WHERE channel_id = $1
		ORDER BY starts_at
	`

	err := r.db.SelectContext(ctx, &events, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (r *eventRepo) AddAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO event_attendees (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		eventID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("add attendee: %w", err)
	}

	return nil
}

func (r *eventRepo) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	err := r.db.SelectContext(
		ctx,
		&userIDs,
		"SELECT user_id FROM event_attendees WHERE event_id = $1",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}

	return userIDs, nil
}
