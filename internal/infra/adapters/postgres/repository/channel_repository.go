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

// ChannelRepository persists channel snapshots and applies membership
// transitions.
//
// ApplyMutation must run all sub-writes of one mutation in a single
// transaction, and every set write must be idempotent so that duplicate
// or out-of-order transitions commute (see models.ChannelMutation).
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Channel, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Channel, error)
	ApplyMutation(ctx context.Context, mut *models.ChannelMutation) error

	GetChannelsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Channel, error)
	GetPublicChannels(ctx context.Context) ([]*models.Channel, error)
}

const channelColumns = `id, name, description, visibility, owner_id,
	invite_code, invite_code_expires_at,
	deleted, deleted_at, deleted_by, created_at, updated_at`

const channelColumnsPrefixed = `c.id, c.name, c.description, c.visibility, c.owner_id,
	c.invite_code, c.invite_code_expires_at,
	c.deleted, c.deleted_at, c.deleted_by, c.created_at, c.updated_at`

type channelRepo struct {
	db *sqlx.DB
}

func NewChannelRepo(db *sqlx.DB) ChannelRepository {
	return &channelRepo{db: db}
}

func (r *channelRepo) Create(ctx context.Context, channel *models.Channel) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create channel: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO channels (id, name, description, visibility, owner_id, invite_code, invite_code_expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		channel.ID,
		channel.Name,
		channel.Description,
		channel.Visibility,
		channel.OwnerID,
		channel.InviteCode,
		channel.InviteCodeExpiry,
	)
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}

	// The owner is always a member and an admin.
	for _, table := range []string{"channel_members", "channel_admins"} {
		_, err = tx.ExecContext(
			ctx,
			fmt.Sprintf("INSERT INTO %s (channel_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", table),
			channel.ID,
			channel.OwnerID,
		)
		if err != nil {
			return fmt.Errorf("insert owner into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create channel: %w", err)
	}

	return nil
}

func (r *channelRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	return r.getOne(ctx, "SELECT "+channelColumns+" FROM channels WHERE id = $1", id)
}

func (r *channelRepo) GetByInviteCode(ctx context.Context, code string) (*models.Channel, error) {
	return r.getOne(ctx, "SELECT "+channelColumns+" FROM channels WHERE invite_code = $1 AND invite_code <> ''", code)
}

func (r *channelRepo) getOne(ctx context.Context, query string, arg any) (*models.Channel, error) {
	var channel models.Channel

	err := r.db.GetContext(ctx, &channel, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.New(apperrors.KindNotFound, "channel not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}

	if err := r.loadSets(ctx, &channel); err != nil {
		return nil, err
	}

	return &channel, nil
}

func (r *channelRepo) loadSets(ctx context.Context, channel *models.Channel) error {
	channel.Members = models.UserSet{}
	channel.Admins = models.UserSet{}
	channel.BannedUsers = models.UserSet{}
	channel.MutedUsers = models.UserSet{}
	channel.InvitedContacts = models.ContactSet{}

	for _, set := range []struct {
		table string
		dst   models.UserSet
	}{
		{"channel_members", channel.Members},
		{"channel_admins", channel.Admins},
		{"channel_banned", channel.BannedUsers},
		{"channel_muted", channel.MutedUsers},
	} {
		var ids []uuid.UUID

		err := r.db.SelectContext(
			ctx,
			&ids,
			fmt.Sprintf("SELECT user_id FROM %s WHERE channel_id = $1", set.table),
			channel.ID,
		)
		if err != nil {
			return fmt.Errorf("load %s: %w", set.table, err)
		}

		for _, id := range ids {
			set.dst.Add(id)
		}
	}

	var contacts []string

	err := r.db.SelectContext(
		ctx,
		&contacts,
		"SELECT contact FROM channel_invites WHERE channel_id = $1",
		channel.ID,
	)
	if err != nil {
		return fmt.Errorf("load channel_invites: %w", err)
	}

	for _, contact := range contacts {
		channel.InvitedContacts.Add(contact)
	}

	return nil
}

// ApplyMutation applies one transition as a single transaction. Set adds
// use ON CONFLICT DO NOTHING and removes are plain deletes, so the write
// is safe to duplicate and commutes with writes touching other users.
func (r *channelRepo) ApplyMutation(ctx context.Context, mut *models.ChannelMutation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mutation: %w", err)
	}
	defer tx.Rollback()

	for _, op := range []struct {
		table string
		add   []uuid.UUID
		del   []uuid.UUID
	}{
		{"channel_members", mut.AddMembers, mut.RemoveMembers},
		{"channel_admins", mut.AddAdmins, mut.RemoveAdmins},
		{"channel_banned", mut.AddBanned, mut.RemoveBanned},
		{"channel_muted", mut.AddMuted, mut.RemoveMuted},
	} {
		for _, id := range op.add {
			_, err = tx.ExecContext(
				ctx,
				fmt.Sprintf("INSERT INTO %s (channel_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", op.table),
				mut.ChannelID,
				id,
			)
			if err != nil {
				return fmt.Errorf("add to %s: %w", op.table, err)
			}
		}

		for _, id := range op.del {
			_, err = tx.ExecContext(
				ctx,
				fmt.Sprintf("DELETE FROM %s WHERE channel_id = $1 AND user_id = $2", op.table),
				mut.ChannelID,
				id,
			)
			if err != nil {
				return fmt.Errorf("remove from %s: %w", op.table, err)
			}
		}
	}

	for _, contact := range mut.AddInvites {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO channel_invites (channel_id, contact) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			mut.ChannelID,
			contact,
		)
		if err != nil {
			return fmt.Errorf("add invite: %w", err)
		}
	}

	for _, contact := range mut.RemoveInvites {
		_, err = tx.ExecContext(
			ctx,
			"DELETE FROM channel_invites WHERE channel_id = $1 AND contact = $2",
			mut.ChannelID,
			contact,
		)
		if err != nil {
			return fmt.Errorf("remove invite: %w", err)
		}
	}

	if err := r.applyScalars(ctx, tx, mut); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mutation: %w", err)
	}

	return nil
}

func (r *channelRepo) applyScalars(ctx context.Context, tx *sqlx.Tx, mut *models.ChannelMutation) error {
	set := "updated_at = now()"
	args := []any{mut.ChannelID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if mut.SetVisibility != nil {
		appendSet("visibility", *mut.SetVisibility)
	}
	if mut.SetInviteCode != nil {
		appendSet("invite_code", *mut.SetInviteCode)
	}
	if mut.SetInviteCodeExpiry != nil {
		appendSet("invite_code_expires_at", *mut.SetInviteCodeExpiry)
	}
	if mut.ClearInviteCodeExpiry {
		set += ", invite_code_expires_at = NULL"
	}
	if mut.SetDeleted != nil {
		appendSet("deleted_at", mut.SetDeleted.At)
		appendSet("deleted_by", mut.SetDeleted.By)
		set += ", deleted = true"
	}

	_, err := tx.ExecContext(
		ctx,
		fmt.Sprintf("UPDATE channels SET %s WHERE id = $1", set),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update channel scalars: %w", err)
	}

	return nil
}

func (r *channelRepo) GetChannelsByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Channel, error) {
	var channels []*models.Channel

	query := `
		SELECT ` + channelColumnsPrefixed + `
		FROM channels c
		INNER JOIN channel_members cm ON c.id = cm.channel_id
		WHERE cm.user_id = $1 AND NOT c.deleted
	`

	err := r.db.SelectContext(ctx, &channels, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get channels by user id: %w", err)
	}

	return channels, nil
}

func (r *channelRepo) GetPublicChannels(ctx context.Context) ([]*models.Channel, error) {
	var channels []*models.Channel

	query := `
		SELECT ` + channelColumnsPrefixed + `
		FROM channels c
		WHERE c.visibility = 'public' AND NOT c.deleted
	`

	err := r.db.SelectContext(ctx, &channels, query)
	if err != nil {
		return nil, fmt.Errorf("get public channels: %w", err)
	}

	return channels, nil
}
