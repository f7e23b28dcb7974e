package models

import (
	"time"
)

// Roles accepted at registration. Staff accounts manage doctors and patients,
// doctors manage their own schedule, patients book appointments and write posts.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	FullName  string    `gorm:"size:120" json:"fullName"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:72" json:"-"` // bcrypt hash, hidden from JSON
	Role      string    `gorm:"size:20;default:'patient'" json:"role"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile is the optional one-to-one extension of a user account.
type Profile struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;uniqueIndex" json:"userId"`
	Bio         string     `gorm:"type:text" json:"bio"`
	AvatarURL   string     `gorm:"size:500" json:"avatarUrl"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     string     `gorm:"size:255" json:"address"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
