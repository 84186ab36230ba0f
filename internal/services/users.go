package services

import (
	"context"
	"fmt"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
)

// UserService reads and updates user profiles.
type UserService struct {
	users        repositories.UserRepository
	appointments repositories.AppointmentRepository
}

// NewUserService creates a UserService. Appointments decide which doctors
// may see a patient's full profile.
func NewUserService(users repositories.UserRepository, appointments repositories.AppointmentRepository) *UserService {
	return &UserService{users: users, appointments: appointments}
}

// GetProfile returns the profile for id.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Visible returns target as viewerID may see it. The user themselves and a
// doctor with an appointment with them get the full *models.User, everyone
// else a models.PublicProfile.
func (s *UserService) Visible(ctx context.Context, viewerID string, role models.Role, target *models.User) (any, error) {
	if target.ID == viewerID {
		return target, nil
	}
	if role == models.RoleDoctor && target.Role == models.RolePatient {
		ok, err := caresFor(ctx, s.appointments, viewerID, target.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			return target, nil
		}
	}
	return target.Public(), nil
}

// GetByEmail returns the user with email, or nil when there is none.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of update to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	errs := fieldErrors{}
	if update.Name != nil {
		errs.check(validName(*update.Name), "name", "Name must be at least 2 characters")
	}
	if update.Phone != nil {
		errs.check(validPhone(*update.Phone), "phone", "Phone number must have at least 10 digits")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
