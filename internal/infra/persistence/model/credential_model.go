package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CredentialModel mirrors the 'credentials' table used by the local identity
// provider. The primary key doubles as the principal ID issued to sessions.
type CredentialModel struct {
	PrincipalID   uuid.UUID                             `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email         string                                `gorm:"type:varchar(255);unique;not null"`
	EmailVerified bool                                  `gorm:"not null;default:false"`
	PasswordHash  string                                `gorm:"type:varchar(255);not null"`
	Metadata      datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (CredentialModel) TableName() string {
	return "credentials"
}
