package repositories

import (
	"context"

	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
)

// HospitalRepository reads hospitals and their departments.
type HospitalRepository interface {
	List(ctx context.Context) ([]models.Hospital, error)
	GetByID(ctx context.Context, id string) (*models.Hospital, error)
	// ListDepartments returns every department when hospitalID is empty.
	ListDepartments(ctx context.Context, hospitalID string) ([]models.Department, error)
}

type hospitalRepository struct {
	db *gorm.DB
}

// NewHospitalRepository returns a gorm backed HospitalRepository.
func NewHospitalRepository(db *gorm.DB) HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) List(ctx context.Context) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.WithContext(ctx).Order("name asc").Find(&hospitals).Error
	return hospitals, err
}

func (r *hospitalRepository) GetByID(ctx context.Context, id string) (*models.Hospital, error) {
	var hospital models.Hospital
	if err := r.db.WithContext(ctx).First(&hospital, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) ListDepartments(ctx context.Context, hospitalID string) ([]models.Department, error) {
	query := r.db.WithContext(ctx)
	if hospitalID != "" {
		query = query.Where("hospital_id = ?", hospitalID)
	}
	var departments []models.Department
	err := query.Order("name asc").Find(&departments).Error
	return departments, err
}
