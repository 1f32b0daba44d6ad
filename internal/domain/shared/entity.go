package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity and timestamp columns shared by every row in a
// tenant schema. IDs are assigned in memory, not by the database, so an
// aggregate and its child rows can reference each other before the posting
// transaction commits.
type Entity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewEntity creates an entity with a fresh ID and matching timestamps
func NewEntity() Entity {
	now := time.Now()
	return Entity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch advances UpdatedAt and returns the new timestamp so callers can
// stamp related fields with the same instant.
func (e *Entity) Touch() time.Time {
	e.UpdatedAt = time.Now()
	return e.UpdatedAt
}
