// Package model holds the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table.
type AccountModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	Name             string    `gorm:"type:varchar(100);not null"`
	Phone            string    `gorm:"type:varchar(32)"`
	Role             string    `gorm:"type:varchar(16);not null"`
	BloodType        string    `gorm:"type:varchar(3)"`
	City             string    `gorm:"type:varchar(100)"`
	DateOfBirth      *time.Time
	MedicalHistory   string `gorm:"type:text"`
	EmergencyContact string `gorm:"type:varchar(100)"`
	Weight           *int
	DonorID          string `gorm:"type:varchar(16);index"`
	IsActive         bool   `gorm:"not null"`
	IsVerified       bool   `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
