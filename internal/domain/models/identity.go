package models

import "github.com/google/uuid"

// Identity is the already-authenticated caller: a user ID plus the contact
// identifier invites are addressed to. The engine trusts both values.
type Identity struct {
	ID      uuid.UUID
	Contact string
}
