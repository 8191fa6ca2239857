package appctx

import (
	"context"

	"github.com/commune-hq/commune/internal/domain/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity stores the authenticated caller in the context.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Identity extracts the authenticated caller from the context.
func Identity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
