package models

import (
	"time"

	"github.com/google/uuid"
)

// BanRecord is one immutable entry of the moderation audit trail.
// Records are append-only; when several exist for the same user the most
// recent IssuedAt is authoritative for the current ban reason.
type BanRecord struct {
	ID        int64     `json:"id" db:"id"`
	ChannelID uuid.UUID `json:"channel_id" db:"channel_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	IssuedBy  uuid.UUID `json:"issued_by" db:"issued_by"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
}
