package repositories

import (
	"context"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// AppointmentRepository persists appointments. Listings are ordered by date
// descending.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	// ListByDoctor preloads each appointment's patient when withPatient is set.
	ListByDoctor(ctx context.Context, doctorID string, withPatient bool) ([]models.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository returns a gorm backed AppointmentRepository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).
		Model(appointment).
		Select("status", "notes", "updated_at").
		Updates(appointment).Error
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date desc").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID string, withPatient bool) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID)
	if withPatient {
		query = query.Preload("Patient")
	}
	var appointments []models.Appointment
	err := query.Order("date desc").Find(&appointments).Error
	return appointments, err
}
