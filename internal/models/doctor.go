package models

import (
	"time"

	"gorm.io/gorm"
)

type Doctor struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	FirstName     string         `gorm:"size:100" json:"firstName"`
	LastName      string         `gorm:"size:100" json:"lastName"`
	Qualification string         `gorm:"size:120" json:"qualification"`
	ContactNumber string         `gorm:"size:20" json:"contactNumber"`
	Email         string         `gorm:"size:255;uniqueIndex" json:"email"`
	Address       string         `gorm:"size:255" json:"address"`
	Biography     string         `gorm:"type:text" json:"biography"`
	IsOnVacation  bool           `gorm:"default:false" json:"isOnVacation"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
