package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

type banRecordRepository struct {
	records []*models.BanRecord
	nextID  int64

	mu sync.Mutex
}

func NewBanRecordRepository() repository.BanRecordRepository {
	return &banRecordRepository{nextID: 1}
}

func (r *banRecordRepository) Append(_ context.Context, record *models.BanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	stored.ID = r.nextID
	r.nextID++
	r.records = append(r.records, &stored)

	record.ID = stored.ID

	return nil
}

func (r *banRecordRepository) ListByChannel(_ context.Context, channelID uuid.UUID) ([]*models.BanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []*models.BanRecord

	for _, record := range r.records {
		if record.ChannelID == channelID {
			stored := *record
			records = append(records, &stored)
		}
	}

	// Most recent first, matching the Postgres adapter.
	sort.Slice(records, func(i, j int) bool {
		if records[i].IssuedAt.Equal(records[j].IssuedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].IssuedAt.After(records[j].IssuedAt)
	})

	return records, nil
}
