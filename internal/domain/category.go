package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a transaction category. Names are unique per owner.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"ownerId"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId,omitempty"` // set for subcategories
	CreatedAt time.Time  `json:"createdAt"`
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	if c.Name == "" {
		return NewFieldValidationError("name", "is required", nil)
	}
	return nil
}

// ResponsibleParty is a named party (e.g. household member) that can carry a
// share of a transaction. Distinct from the owning user. Names are unique
// per owner.
type ResponsibleParty struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate ensures the responsible party adheres to domain rules
func (p *ResponsibleParty) Validate() error {
	if p.Name == "" {
		return NewFieldValidationError("name", "is required", nil)
	}
	return nil
}
