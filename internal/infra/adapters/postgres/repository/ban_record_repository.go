package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/commune-hq/commune/internal/domain/models"
)

// BanRecordRepository is the append-only moderation audit store. It is
// guarded independently from the channel documents: an append may be
// rejected even though the ban itself committed.
type BanRecordRepository interface {
	Append(ctx context.Context, record *models.BanRecord) error
	ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.BanRecord, error)
}

type banRecordRepo struct {
	db *sqlx.DB
}

func NewBanRecordRepo(db *sqlx.DB) BanRecordRepository {
	return &banRecordRepo{db: db}
}

func (r *banRecordRepo) Append(ctx context.Context, record *models.BanRecord) error {
	query := `
		INSERT INTO ban_records (channel_id, user_id, issued_by, reason, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		record.ChannelID,
		record.UserID,
		record.IssuedBy,
		record.Reason,
		record.IssuedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("append ban record: %w", err)
	}

	return nil
}

func (r *banRecordRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*models.BanRecord, error) {
	var records []*models.BanRecord

	query := `
		SELECT id, channel_id, user_id, issued_by, reason, issued_at
		FROM ban_records
		WHERE channel_id = $1
		ORDER BY issued_at DESC, id DESC
	`

	err := r.db.SelectContext(ctx, &records, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list ban records: %w", err)
	}

	return records, nil
}
