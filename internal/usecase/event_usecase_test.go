package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commune-hq/commune/internal/domain/apperrors"
	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/domain/role"
)

func TestCreateEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "riverfront-run-club", models.VisibilityPublic)

	event, err := f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{
		Title:    "saturday 10k",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, event.CreatorID)

	events, err := f.events.ListEvents(ctx, owner, channel.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	channel := f.mustCreateChannel(owner, "riverfront-run-club", models.VisibilityPublic)

	_, err := f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{Title: ""})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	_, err = f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{Title: "10k"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState), "starts_at required")
}

func TestRSVPAutoJoinsVisitor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "riverfront-run-club", models.VisibilityPublic)

	event, err := f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{
		Title:    "saturday 10k",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, f.events.RSVP(ctx, casey, event.ID))

	res, err := f.membership.Resolve(ctx, casey, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, role.RoleMember, res.Role, "RSVP is a content-producing interaction")

	// A duplicate RSVP is a no-op.
	require.NoError(t, f.events.RSVP(ctx, casey, event.ID))

	attendees, err := f.events.ListAttendees(ctx, owner, event.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{casey.ID}, attendees)
}

func TestRSVPRejectedForBanned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	casey := identity("casey@example.com")
	channel := f.mustCreateChannel(owner, "riverfront-run-club", models.VisibilityPublic)
	f.mustJoin(casey, channel.ID)

	event, err := f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{
		Title:    "saturday 10k",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.membership.Ban(ctx, owner, channel.ID, casey.ID, "spam")
	require.NoError(t, err)

	err = f.events.RSVP(ctx, casey, event.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestListAttendeesRequiresView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	owner := identity("owner@example.com")
	stranger := identity("stranger@example.com")
	channel := f.mustCreateChannel(owner, "book-club", models.VisibilityPrivate)

	event, err := f.events.CreateEvent(ctx, owner, channel.ID, &input.CreateEventInput{
		Title:    "chapter twelve",
		StartsAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = f.events.ListAttendees(ctx, stranger, event.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
