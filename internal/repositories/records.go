package repositories

import (
	"context"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// MedicalRecordRepository persists medical record metadata. Listings are
// newest first.
type MedicalRecordRepository interface {
	Create(ctx context.Context, record *models.MedicalRecord) error
	GetByID(ctx context.Context, id string) (*models.MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
}

// PrescriptionRepository persists prescriptions. Listings are newest first.
type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, id string) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error)
}

type medicalRecordRepository struct {
	db *gorm.DB
}

// NewMedicalRecordRepository returns a gorm backed MedicalRecordRepository.
func NewMedicalRecordRepository(db *gorm.DB) MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *models.MedicalRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *medicalRecordRepository) GetByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) ListByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&records).Error
	return records, err
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.MedicalRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type prescriptionRepository struct {
	db *gorm.DB
}

// NewPrescriptionRepository returns a gorm backed PrescriptionRepository.
func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	return r.db.WithContext(ctx).Create(prescription).Error
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id string) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := r.db.WithContext(ctx).First(&prescription, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (r *prescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&prescriptions).Error
	return prescriptions, err
}

func (r *prescriptionRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Find(&prescriptions).Error
	return prescriptions, err
}
