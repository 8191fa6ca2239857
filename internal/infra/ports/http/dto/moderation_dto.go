package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/models"
)

type BanRequest struct {
	Reason string `json:"reason"`
}

type UnbanRequest struct {
	RestoreMembership bool `json:"restore_membership"`
}

// BanResponse carries the updated snapshot plus a warning when the audit
// record was lost; the ban itself still succeeded.
type BanResponse struct {
	Channel ChannelResponse `json:"channel"`
	Warning string          `json:"warning,omitempty"`
}

type BanRecordResponse struct {
	ID        int64     `json:"id"`
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	IssuedBy  uuid.UUID `json:"issued_by"`
	Reason    string    `json:"reason,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

type BanHistoryResponse struct {
	Records []BanRecordResponse `json:"records"`
}

func NewBanHistoryResponse(records []*models.BanRecord) BanHistoryResponse {
	resp := BanHistoryResponse{
		Records: make([]BanRecordResponse, 0, len(records)),
	}

	for _, record := range records {
		resp.Records = append(resp.Records, BanRecordResponse{
			ID:        record.ID,
			ChannelID: record.ChannelID,
			UserID:    record.UserID,
			IssuedBy:  record.IssuedBy,
			Reason:    record.Reason,
			IssuedAt:  record.IssuedAt,
		})
	}

	return resp
}
