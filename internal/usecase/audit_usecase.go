package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/application/constant"
	"github.com/commune-hq/commune/internal/application/metric"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/adapters/postgres/repository"
)

// AuditStatus is the outcome of an audit append.
type AuditStatus int

const (
	// AuditOK means the record was persisted.
	AuditOK AuditStatus = iota
	// AuditDegraded means the append was rejected; the moderation action
	// that produced the record still stands.
	AuditDegraded
)

// AuditUsecase is the moderation audit trail: an append-only, best-effort
// history of ban actions.
type AuditUsecase interface {
	// Record appends a ban record. It never fails hard: a rejected write
	// is reported as AuditDegraded and the caller treats it as a warning.
	Record(ctx context.Context, record *models.BanRecord) AuditStatus

	// ListBanHistory returns the channel's ban records, most recent first.
	// The actor needs the moderate capability.
	ListBanHistory(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.BanRecord, error)
}

type auditUsecase struct {
	banRecordRepo repository.BanRecordRepository
	channelRepo   repository.ChannelRepository
}

func NewAuditUsecase(banRecordRepo repository.BanRecordRepository, channelRepo repository.ChannelRepository) AuditUsecase {
	return &auditUsecase{
		banRecordRepo: banRecordRepo,
		channelRepo:   channelRepo,
	}
}

func (uc *auditUsecase) Record(ctx context.Context, record *models.BanRecord) AuditStatus {
	if err := uc.banRecordRepo.Append(ctx, record); err != nil {
		slog.Warn(
			"ban audit record lost",
			slog.Any(constant.Error, err),
			slog.Any(constant.ChannelID, record.ChannelID),
			slog.Any(constant.UserID, record.UserID),
		)
		metric.RecordAuditDegraded()

		return AuditDegraded
	}

	return AuditOK
}

func (uc *auditUsecase) ListBanHistory(ctx context.Context, actor models.Identity, channelID uuid.UUID) ([]*models.BanRecord, error) {
	channel, err := uc.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if err := requireCapability(channel, actor, role.CapModerate); err != nil {
		return nil, err
	}

	return uc.banRecordRepo.ListByChannel(ctx, channelID)
}

// LatestBanFor returns the authoritative record for a user's current ban
// reason: the most recent entry. Records must be ordered most recent
// first, as ListBanHistory returns them.
func LatestBanFor(records []*models.BanRecord, userID uuid.UUID) *models.BanRecord {
	for _, record := range records {
		if record.UserID == userID {
			return record
		}
	}

	return nil
}
