package models

import (
	"time"
)

// AppointmentStatus tracks the lifecycle of a booking.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

type Appointment struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	PatientID string            `gorm:"size:36;index" json:"patientId"`
	DoctorID  string            `gorm:"size:36;index" json:"doctorId"`
	StartTime time.Time         `gorm:"index" json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Service   string            `gorm:"size:120" json:"service"`
	Status    AppointmentStatus `gorm:"size:20;default:'Scheduled'" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
}
