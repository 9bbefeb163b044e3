package models

import "github.com/google/uuid"

// ID identifies an entity for the lifetime of the process. IDs are random v4
// uuids and are never reused.
type ID = uuid.UUID

// NilID is the zero ID, used where an optional relative is absent.
var NilID = uuid.Nil

func NewID() ID {
	return uuid.New()
}
