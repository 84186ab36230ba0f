package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every status in display order.
var AppointmentStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether s is one of the four appointment statuses.
func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment represents a consultation booked by a patient with a doctor
type Appointment struct {
	BaseModel
	PatientID string            `gorm:"size:36;index;not null" json:"patient_id"`
	DoctorID  string            `gorm:"size:36;index;not null" json:"doctor_id"`
	Date      time.Time         `gorm:"index" json:"date"`
	Status    AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`

	// Relations
	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"-"`
}

// HasParticipant reports whether userID is the patient or the doctor.
func (a *Appointment) HasParticipant(userID string) bool {
	return a.PatientID == userID || a.DoctorID == userID
}

// Counterpart returns the other participant for userID, or "" if userID is
// not a participant.
func (a *Appointment) Counterpart(userID string) string {
	switch userID {
	case a.PatientID:
		return a.DoctorID
	case a.DoctorID:
		return a.PatientID
	}
	return ""
}
