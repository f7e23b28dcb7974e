package models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	UserID         string         `gorm:"size:36;index" json:"userId"` // owning account, empty for walk-ins
	FirstName      string         `gorm:"size:100" json:"firstName"`
	LastName       string         `gorm:"size:100" json:"lastName"`
	DateOfBirth    *time.Time     `json:"dateOfBirth,omitempty"`
	ContactNumber  string         `gorm:"size:20" json:"contactNumber"`
	Email          string         `gorm:"size:255;index" json:"email"`
	Address        string         `gorm:"size:255" json:"address"`
	MedicalHistory string         `gorm:"type:text" json:"medicalHistory"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
