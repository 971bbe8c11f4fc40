package entity

import (
	"time"

	"github.com/google/uuid"
)

// GovernmentScheme is an informational record about a farming subsidy or
// support program, curated by admins and shown to sellers.
type GovernmentScheme struct {
	ID          uuid.UUID
	Title       string
	Description string
	Eligibility string     // Optional free-text eligibility criteria.
	LastDate    *time.Time // Optional application deadline.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
