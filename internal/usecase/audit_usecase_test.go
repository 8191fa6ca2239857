package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/models"
)

func TestAuditRecord(t *testing.T) {
	f := newFixture()

	status := f.audit.Record(context.Background(), &models.BanRecord{
		ChannelID: uuid.New(),
		UserID:    uuid.New(),
		IssuedBy:  uuid.New(),
		Reason:    "spam",
		IssuedAt:  time.Now().UTC(),
	})

	assert.Equal(t, AuditOK, status)
}

func TestAuditRecordDegradesOnFailure(t *testing.T) {
	f := newFixture()
	audit := NewAuditUsecase(failingBanRecordRepo{}, f.channelRepo)

	status := audit.Record(context.Background(), &models.BanRecord{
		ChannelID: uuid.New(),
		UserID:    uuid.New(),
		IssuedAt:  time.Now().UTC(),
	})

	assert.Equal(t, AuditDegraded, status)
}

func TestBanSucceedsWhenAuditIsDown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Rebuild membership on a broken audit store.
	membership := NewMembershipUsecase(
		f.channelRepo,
		f.userRepo,
		NewAuditUsecase(failingBanRecordRepo{}, f.channelRepo),
		NoopNotifier{},
	)

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	result, err := membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err, "the ban itself must stand")
	assert.True(t, result.AuditDegraded)
	assert.True(t, result.Channel.BannedUsers.Has(casey.ID))
}

func TestListBanHistoryRequiresModerate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	_, err := f.audit.ListBanHistory(ctx, casey, channel.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestLatestBanIsAuthoritative(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "trail-talk", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	// Ban, unban, ban again with a different reason.
	_, err := f.membership.Ban(ctx, owner, channel.ID, casey.ID, "first offense")
	require.NoError(t, err)
	_, err = f.membership.Unban(ctx, owner, channel.ID, casey.ID, true)
	require.NoError(t, err)
	_, err = f.membership.Ban(ctx, owner, channel.ID, casey.ID, "second offense")
	require.NoError(t, err)

	records, err := f.audit.ListBanHistory(ctx, owner, channel.ID)
	require.NoError(t, err)
	require.Len(t, records, 2, "the trail is append-only")

	latest := LatestBanFor(records, casey.ID)
	require.NotNil(t, latest)
	assert.Equal(t, "second offense", latest.Reason)

	assert.Nil(t, LatestBanFor(records, uuid.New()))
}
