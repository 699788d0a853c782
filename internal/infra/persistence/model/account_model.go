package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. IDs are UUIDv7 assigned by the application.
type AccountModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name            string     `gorm:"type:varchar(100);not null"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"`
	Contact         string     `gorm:"type:varchar(10);not null"`
	Role            string     `gorm:"type:varchar(16);not null;index:idx_accounts_role_approval,priority:1"`
	AgencyName      *string    `gorm:"type:varchar(150)"`
	LicenseNumber   *string    `gorm:"type:varchar(100)"`
	IsApproved      bool       `gorm:"not null;default:false;index:idx_accounts_role_approval,priority:2"`
	RejectionReason string     `gorm:"type:text;not null;default:''"`
	ApprovedAt      *time.Time `gorm:"type:timestamptz"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
