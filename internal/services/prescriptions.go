package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/storage"
	"telehealth-app-server/internal/watermark"
)

// prescribableStatuses are the appointment states that let a doctor issue a
// prescription.
var prescribableStatuses = []models.AppointmentStatus{models.StatusScheduled, models.StatusInProgress}

// PrescriptionService issues prescriptions to patients.
type PrescriptionService struct {
	prescriptions repositories.PrescriptionRepository
	users         repositories.UserRepository
	doctors       repositories.DoctorRepository
	appointments  *AppointmentService
	store         storage.ObjectStore
	events        realtime.Publisher
	maxBytes      int64
	now           func() time.Time
}

// NewPrescriptionService creates a PrescriptionService.
func NewPrescriptionService(
	prescriptions repositories.PrescriptionRepository,
	users repositories.UserRepository,
	doctors repositories.DoctorRepository,
	appointments *AppointmentService,
	store storage.ObjectStore,
	events realtime.Publisher,
	maxBytes int64,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		users:         users,
		doctors:       doctors,
		appointments:  appointments,
		store:         store,
		events:        events,
		maxBytes:      maxBytes,
		now:           time.Now,
	}
}

// Upload stores a prescription image for patientID, stamped with the
// doctor's logo when one is on file.
func (s *PrescriptionService) Upload(ctx context.Context, doctorID, patientID, text string, file Upload) (*models.Prescription, error) {
	if patientID == "" {
		return nil, apperr.BadRequest("Please select a patient")
	}
	if err := file.check(s.maxBytes, prescriptionContentTypes); err != nil {
		return nil, err
	}

	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, err
	}
	if patient.Role != models.RolePatient {
		return nil, apperr.BadRequest("Prescriptions can only be issued to patients")
	}
	ok, err := s.appointments.CaresFor(ctx, doctorID, patientID, prescribableStatuses...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbidden("You can only prescribe for patients with a scheduled or in-progress appointment")
	}

	contentType := baseContentType(file.ContentType)
	data := s.stamp(ctx, doctorID, contentType, file.Data)

	name := safeFileName(file.FileName)
	key := fmt.Sprintf("%s/%s/%d-%s", patientID, doctorID, s.now().UnixMilli(), name)
	if err := s.store.Upload(ctx, storage.BucketPrescriptions, key, contentType, bytes.NewReader(data), false); err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, apperr.Conflict("A file with this name was just uploaded, please retry")
		}
		return nil, fmt.Errorf("upload prescription: %w", err)
	}

	prescription := &models.Prescription{
		PatientID:        patientID,
		DoctorID:         doctorID,
		ImageURL:         s.store.PublicURL(storage.BucketPrescriptions, key),
		StorageKey:       key,
		PrescriptionText: strings.TrimSpace(text),
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		if delErr := s.store.Delete(ctx, storage.BucketPrescriptions, key); delErr != nil {
			zerolog.Ctx(ctx).Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned prescription file")
		}
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventInsert, realtime.TablePrescriptions,
		prescription, recipients(patientID, doctorID)...))
	return prescription, nil
}

// stamp watermarks data with the doctor's logo. Any failure leaves the
// original bytes in place.
func (s *PrescriptionService) stamp(ctx context.Context, doctorID, contentType string, data []byte) []byte {
	if !watermark.Supported(contentType) {
		return data
	}
	doctor, err := s.doctors.GetByUserID(ctx, doctorID)
	if err != nil || doctor.LogoKey == "" {
		return data
	}

	logger := zerolog.Ctx(ctx)
	logo, err := s.store.Download(ctx, storage.BucketLogos, doctor.LogoKey)
	if err != nil {
		logger.Warn().Err(err).Str("doctor_id", doctorID).Msg("failed to load logo for watermark")
		return data
	}
	stamped, err := watermark.Apply(data, contentType, logo.Data)
	if err != nil {
		logger.Warn().Err(err).Str("doctor_id", doctorID).Msg("failed to watermark prescription")
		return data
	}
	return stamped
}

// ListForUser returns the prescriptions a patient received or a doctor
// issued, newest first.
func (s *PrescriptionService) ListForUser(ctx context.Context, userID string, role models.Role) ([]models.Prescription, error) {
	if role == models.RoleDoctor {
		return s.prescriptions.ListByDoctor(ctx, userID)
	}
	return s.prescriptions.ListByPatient(ctx, userID)
}

// ListForPatient returns patientID's prescriptions to the patient or to a
// doctor treating them.
func (s *PrescriptionService) ListForPatient(ctx context.Context, viewerID string, role models.Role, patientID string) ([]models.Prescription, error) {
	if err := s.canView(ctx, viewerID, role, patientID); err != nil {
		return nil, err
	}
	return s.prescriptions.ListByPatient(ctx, patientID)
}

func (s *PrescriptionService) canView(ctx context.Context, viewerID string, role models.Role, patientID string) error {
	if viewerID == patientID {
		return nil
	}
	if role == models.RoleDoctor {
		ok, err := s.appointments.CaresFor(ctx, viewerID, patientID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return apperr.Forbidden("You do not have access to this patient's prescriptions")
}

// Download returns a prescription and its stored image to the patient, the
// issuing doctor or another doctor treating the patient.
func (s *PrescriptionService) Download(ctx context.Context, id, viewerID string, role models.Role) (*models.Prescription, *storage.Object, error) {
	prescription, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.NotFound("Prescription not found")
		}
		return nil, nil, err
	}
	if prescription.DoctorID != viewerID {
		if err := s.canView(ctx, viewerID, role, prescription.PatientID); err != nil {
			return nil, nil, err
		}
	}

	obj, err := s.store.Download(ctx, storage.BucketPrescriptions, prescription.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, apperr.NotFound("Prescription file not found")
		}
		return nil, nil, fmt.Errorf("download prescription: %w", err)
	}
	return prescription, obj, nil
}

// Candidates returns the patients a doctor can currently prescribe for:
// those with a scheduled or in-progress appointment.
func (s *PrescriptionService) Candidates(ctx context.Context, doctorID string) ([]models.User, error) {
	return s.appointments.DoctorPatients(ctx, doctorID, prescribableStatuses...)
}
