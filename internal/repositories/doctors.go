package repositories

import (
	"context"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// DoctorFilter narrows a doctor listing. Empty fields match everything.
type DoctorFilter struct {
	Specialization string
	HospitalID     string
	DepartmentID   string
}

// DoctorRepository persists doctor practice profiles.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	Update(ctx context.Context, doctor *models.Doctor) error
	GetByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error)
}

type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository returns a gorm backed DoctorRepository.
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Create(doctor).Error
}

func (r *doctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	return r.db.WithContext(ctx).Save(doctor).Error
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	query := r.db.WithContext(ctx).Model(&models.Doctor{})
	if filter.Specialization != "" {
		query = query.Where("specialization = ?", filter.Specialization)
	}
	if filter.HospitalID != "" {
		query = query.Where("hospital_id = ?", filter.HospitalID)
	}
	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}

	var doctors []models.Doctor
	err := query.Order("name asc").Find(&doctors).Error
	return doctors, err
}
