package model

import (
	"time"

	"github.com/google/uuid"
)

// PropertyModel mirrors the 'properties' table. AgentID references accounts.id.
type PropertyModel struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	AgentID         uuid.UUID     `gorm:"type:uuid;not null;index"`
	Agent           *AccountModel `gorm:"foreignKey:AgentID;constraint:OnDelete:RESTRICT"`
	Title           string        `gorm:"type:varchar(200);not null"`
	Description     string        `gorm:"type:text"`
	Address         string        `gorm:"type:varchar(300);not null"`
	City            string        `gorm:"type:varchar(100);not null;index"`
	PropertyType    string        `gorm:"type:varchar(32);not null"`
	ListingType     string        `gorm:"type:varchar(16);not null"`
	Price           int64         `gorm:"not null"`
	Bedrooms        int           `gorm:"not null;default:0"`
	Bathrooms       int           `gorm:"not null;default:0"`
	AreaSqFt        int           `gorm:"column:area_sq_ft;not null;default:0"`
	IsApproved      bool          `gorm:"not null;default:false;index"`
	RejectionReason string        `gorm:"type:text;not null;default:''"`
	ApprovedAt      *time.Time    `gorm:"type:timestamptz"`
	ApprovedBy      *uuid.UUID    `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (PropertyModel) TableName() string {
	return "properties"
}

// All returns every model managed by migrations.
func All() []any {
	return []any{&AccountModel{}, &PropertyModel{}}
}
