package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
)

// CreateAppointmentInput is a booking request from a patient.
type CreateAppointmentInput struct {
	DoctorID string
	Date     time.Time
	Notes    string
}

// AppointmentService books appointments and tracks their status.
type AppointmentService struct {
	appointments repositories.AppointmentRepository
	users        repositories.UserRepository
	events       realtime.Publisher
	now          func() time.Time
}

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	users repositories.UserRepository,
	events realtime.Publisher,
) *AppointmentService {
	return &AppointmentService{appointments: appointments, users: users, events: events, now: time.Now}
}

// Create books a scheduled appointment for patientID with a doctor.
func (s *AppointmentService) Create(ctx context.Context, patientID string, in CreateAppointmentInput) (*models.Appointment, error) {
	if in.DoctorID == "" {
		return nil, apperr.BadRequest("Please select a doctor")
	}
	if !in.Date.After(s.now()) {
		return nil, apperr.BadRequest("Appointment date must be in the future")
	}

	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Doctor not found")
		}
		return nil, err
	}
	if doctor.Role != models.RoleDoctor {
		return nil, apperr.BadRequest("Selected user is not a doctor")
	}

	appointment := &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Date:      in.Date.UTC(),
		Status:    models.StatusScheduled,
		Notes:     strings.TrimSpace(in.Notes),
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventInsert, realtime.TableAppointments,
		appointment, appointment.PatientID, appointment.DoctorID))
	return appointment, nil
}

// ListForUser returns the user's appointments, newest date first. Doctors
// get each appointment's patient profile attached.
func (s *AppointmentService) ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Appointment, error) {
	if role == models.RoleDoctor {
		return s.appointments.ListByDoctor(ctx, userID, true)
	}
	return s.appointments.ListByPatient(ctx, userID)
}

// Get returns an appointment visible to one of its participants.
func (s *AppointmentService) Get(ctx context.Context, id, userID string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	if !appointment.HasParticipant(userID) {
		return nil, apperr.Forbidden("You are not a participant of this appointment")
	}
	return appointment, nil
}

// UpdateStatus sets the status of an appointment. Only the appointment's
// doctor may change it; any status may follow any other.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, doctorID string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, apperr.BadRequest("Invalid appointment status")
	}

	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Appointment not found")
		}
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, apperr.Forbidden("Only the appointment's doctor can change its status")
	}

	appointment.Status = status
	appointment.UpdatedAt = s.now()
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventUpdate, realtime.TableAppointments,
		appointment, appointment.PatientID, appointment.DoctorID))
	return appointment, nil
}

// Stats counts the user's appointments by status.
func (s *AppointmentService) Stats(ctx context.Context, userID string, role models.Role) (AppointmentStats, error) {
	var (
		appointments []models.Appointment
		err          error
	)
	if role == models.RoleDoctor {
		appointments, err = s.appointments.ListByDoctor(ctx, userID, false)
	} else {
		appointments, err = s.appointments.ListByPatient(ctx, userID)
	}
	if err != nil {
		return AppointmentStats{}, err
	}
	return CountByStatus(appointments), nil
}

// DoctorPatients returns the distinct patients of doctorID, most recent
// appointment first, optionally restricted to appointments in statuses.
func (s *AppointmentService) DoctorPatients(ctx context.Context, doctorID string, statuses ...models.AppointmentStatus) ([]models.User, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID, false)
	if err != nil {
		return nil, err
	}
	ids := UniquePatientIDs(appointments, statuses...)
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(users, func(u models.User) string { return u.ID })
	return lo.FilterMap(ids, func(id string, _ int) (models.User, bool) {
		u, ok := byID[id]
		return u, ok
	}), nil
}

// CaresFor reports whether doctorID has an appointment with patientID. When
// statuses are given only appointments in one of them count.
func (s *AppointmentService) CaresFor(ctx context.Context, doctorID, patientID string, statuses ...models.AppointmentStatus) (bool, error) {
	return caresFor(ctx, s.appointments, doctorID, patientID, statuses...)
}

func caresFor(ctx context.Context, appointments repositories.AppointmentRepository, doctorID, patientID string, statuses ...models.AppointmentStatus) (bool, error) {
	list, err := appointments.ListByDoctor(ctx, doctorID, false)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(list, func(a models.Appointment) bool {
		return a.PatientID == patientID && (len(statuses) == 0 || lo.Contains(statuses, a.Status))
	}), nil
}
