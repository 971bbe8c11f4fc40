package model

import (
	"time"

	"github.com/google/uuid"
)

// GovernmentSchemeModel mirrors the 'government_schemes' table.
type GovernmentSchemeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Eligibility string    `gorm:"type:text"`
	LastDate    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (GovernmentSchemeModel) TableName() string {
	return "government_schemes"
}
