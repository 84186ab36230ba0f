package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/storage"
	"telehealth-app-server/internal/watermark"
)

// maxLogoBytes bounds an uploaded practice logo.
const maxLogoBytes = 2 << 20

// CreateDoctorInput is the practice profile a doctor fills in.
type CreateDoctorInput struct {
	HospitalID     string
	DepartmentID   string
	Specialization string
}

// DoctorService manages doctor practice profiles and their logos.
type DoctorService struct {
	doctors   repositories.DoctorRepository
	users     repositories.UserRepository
	hospitals repositories.HospitalRepository
	store     storage.ObjectStore
}

// NewDoctorService creates a DoctorService.
func NewDoctorService(
	doctors repositories.DoctorRepository,
	users repositories.UserRepository,
	hospitals repositories.HospitalRepository,
	store storage.ObjectStore,
) *DoctorService {
	return &DoctorService{doctors: doctors, users: users, hospitals: hospitals, store: store}
}

// Create stores the practice profile for the doctor user userID.
func (s *DoctorService) Create(ctx context.Context, userID string, in CreateDoctorInput) (*models.Doctor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	if user.Role != models.RoleDoctor {
		return nil, apperr.Forbidden("Only doctors can create a doctor profile")
	}

	if _, err := s.doctors.GetByUserID(ctx, userID); err == nil {
		return nil, apperr.Conflict("A doctor profile already exists for this user")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	if err := s.checkPlacement(ctx, in.HospitalID, in.DepartmentID); err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		HospitalID:     in.HospitalID,
		DepartmentID:   in.DepartmentID,
		Specialization: strings.TrimSpace(in.Specialization),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return doctor, nil
}

// checkPlacement verifies the hospital exists and owns the department.
func (s *DoctorService) checkPlacement(ctx context.Context, hospitalID, departmentID string) error {
	if hospitalID == "" {
		if departmentID != "" {
			return apperr.BadRequest("A department requires a hospital")
		}
		return nil
	}
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Hospital not found")
		}
		return err
	}
	if departmentID == "" {
		return nil
	}
	departments, err := s.hospitals.ListDepartments(ctx, hospitalID)
	if err != nil {
		return err
	}
	for _, d := range departments {
		if d.ID == departmentID {
			return nil
		}
	}
	return apperr.BadRequest("Department does not belong to the selected hospital")
}

// List returns doctors matching filter.
func (s *DoctorService) List(ctx context.Context, filter repositories.DoctorFilter) ([]models.Doctor, error) {
	return s.doctors.List(ctx, filter)
}

// Profile returns the practice profile of the doctor user userID.
func (s *DoctorService) Profile(ctx context.Context, userID string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Doctor profile not found")
		}
		return nil, err
	}
	return doctor, nil
}

// UploadLogo stores the doctor's logo, replacing any previous one.
func (s *DoctorService) UploadLogo(ctx context.Context, userID, contentType string, data []byte) (*models.Doctor, error) {
	if len(data) == 0 {
		return nil, apperr.BadRequest("Logo file is empty")
	}
	if len(data) > maxLogoBytes {
		return nil, apperr.New(http.StatusRequestEntityTooLarge, "Logo must be 2MB or smaller")
	}
	if !watermark.Supported(contentType) {
		return nil, apperr.BadRequest("Logo must be a PNG or JPEG image")
	}

	doctor, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := doctor.UserID
	if err := s.store.Upload(ctx, storage.BucketLogos, key, contentType, bytes.NewReader(data), true); err != nil {
		return nil, fmt.Errorf("upload logo: %w", err)
	}

	doctor.LogoKey = key
	doctor.LogoURL = s.store.PublicURL(storage.BucketLogos, key)
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("save logo: %w", err)
	}
	return doctor, nil
}

// Logo returns the stored logo of the doctor user userID.
func (s *DoctorService) Logo(ctx context.Context, userID string) (*storage.Object, error) {
	doctor, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doctor.LogoKey == "" {
		return nil, apperr.ErrNoContent
	}
	obj, err := s.store.Download(ctx, storage.BucketLogos, doctor.LogoKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, apperr.ErrNoContent
		}
		return nil, fmt.Errorf("download logo: %w", err)
	}
	return obj, nil
}
