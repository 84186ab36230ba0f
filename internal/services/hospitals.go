package services

import (
	"context"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
)

// HospitalService lists hospitals and departments.
type HospitalService struct {
	hospitals repositories.HospitalRepository
}

func NewHospitalService(hospitals repositories.HospitalRepository) *HospitalService {
	return &HospitalService{hospitals: hospitals}
}

func (s *HospitalService) List(ctx context.Context) ([]models.Hospital, error) {
	return s.hospitals.List(ctx)
}

func (s *HospitalService) Get(ctx context.Context, id string) (*models.Hospital, error) {
	hospital, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Hospital not found")
		}
		return nil, err
	}
	return hospital, nil
}

// Departments returns the departments of hospitalID.
func (s *HospitalService) Departments(ctx context.Context, hospitalID string) ([]models.Department, error) {
	if _, err := s.Get(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.hospitals.ListDepartments(ctx, hospitalID)
}

// AllDepartments returns every department across hospitals.
func (s *HospitalService) AllDepartments(ctx context.Context) ([]models.Department, error) {
	return s.hospitals.ListDepartments(ctx, "")
}
