package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductModel mirrors the 'products' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type ProductModel struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string                      `gorm:"type:varchar(150);not null"`
	Description string                      `gorm:"type:text"`
	Price       float64                     `gorm:"type:decimal(12,2);not null"`
	Unit        string                      `gorm:"type:varchar(30)"`
	Quantity    int                         `gorm:"not null;default:0"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Category    string                      `gorm:"type:varchar(50);index"`
	SellerID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	SellerName  string                      `gorm:"type:varchar(100)"`
	Status      string                      `gorm:"type:varchar(20);not null;index;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
