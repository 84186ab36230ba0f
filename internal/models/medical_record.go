package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalRecord is a file uploaded to a patient's record. The blob itself
// lives in object storage under StorageKey.
type MedicalRecord struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PatientID  string    `gorm:"size:36;index;not null" json:"patient_id"`
	FileURL    string    `gorm:"type:text;not null" json:"file_url"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileType   string    `gorm:"size:100" json:"file_type"`
	StorageKey string    `gorm:"type:text" json:"-"`
	UploadedBy string    `gorm:"size:36;index" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}

// Prescription is an image issued by a doctor to a patient.
type Prescription struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PatientID        string    `gorm:"size:36;index;not null" json:"patient_id"`
	DoctorID         string    `gorm:"size:36;index;not null" json:"doctor_id"`
	ImageURL         string    `gorm:"type:text;not null" json:"image_url"`
	StorageKey       string    `gorm:"type:text" json:"-"`
	PrescriptionText string    `gorm:"type:text" json:"prescription_text,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

func (r *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
