package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
)

type CreateChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

type SetVisibilityRequest struct {
	Visibility string `json:"visibility"`
}

type SetInviteExpiryRequest struct {
	// ExpiresAt null clears the expiry.
	ExpiresAt *time.Time `json:"expires_at"`
}

type RedeemInviteCodeRequest struct {
	Code string `json:"code"`
}

type InviteRequest struct {
	Contact string `json:"contact"`
}

type ChannelResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	OwnerID     uuid.UUID `json:"owner_id"`

	Members         []uuid.UUID `json:"members,omitempty"`
	Admins          []uuid.UUID `json:"admins,omitempty"`
	BannedUsers     []uuid.UUID `json:"banned_users,omitempty"`
	MutedUsers      []uuid.UUID `json:"muted_users,omitempty"`
	InvitedContacts []string    `json:"invited_contacts,omitempty"`

	InviteCode       string     `json:"invite_code,omitempty"`
	InviteCodeExpiry *time.Time `json:"invite_code_expiry,omitempty"`

	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewChannelResponseFromModel(ch *models.Channel) ChannelResponse {
	return ChannelResponse{
		ID:               ch.ID,
		Name:             ch.Name,
		Description:      ch.Description,
		Visibility:       string(ch.Visibility),
		OwnerID:          ch.OwnerID,
		Members:          ch.Members.IDs(),
		Admins:           ch.Admins.IDs(),
		BannedUsers:      ch.BannedUsers.IDs(),
		MutedUsers:       ch.MutedUsers.IDs(),
		InvitedContacts:  ch.InvitedContacts.Values(),
		InviteCode:       ch.InviteCode,
		InviteCodeExpiry: ch.InviteCodeExpiry,
		Deleted:          ch.Deleted,
		DeletedAt:        ch.DeletedAt,
		CreatedAt:        ch.CreatedAt,
		UpdatedAt:        ch.UpdatedAt,
	}
}

type ListChannelsResponse struct {
	Channels []ChannelResponse `json:"channels"`
}

type RoleResponse struct {
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

func NewRoleResponse(res role.Resolution) RoleResponse {
	return RoleResponse{
		Role:         res.Role.String(),
		Capabilities: res.Capabilities.Names(),
	}
}
