package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindUnauthorized, "nope")

	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("apply ban: %w", New(KindInvalidState, "target already banned"))

	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("driver: bad connection")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindAuditDegraded, "audit append failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "audit append failed")
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "unauthorized", KindUnauthorized.String())
	assert.Equal(t, "expired_invite", KindExpiredInvite.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
