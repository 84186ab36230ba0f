package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/storage"
)

// RecordService stores medical record files and their metadata.
type RecordService struct {
	records      repositories.MedicalRecordRepository
	users        repositories.UserRepository
	appointments *AppointmentService
	store        storage.ObjectStore
	events       realtime.Publisher
	maxBytes     int64
	now          func() time.Time
}

// NewRecordService creates a RecordService. Uploads larger than maxBytes
// are rejected.
func NewRecordService(
	records repositories.MedicalRecordRepository,
	users repositories.UserRepository,
	appointments *AppointmentService,
	store storage.ObjectStore,
	events realtime.Publisher,
	maxBytes int64,
) *RecordService {
	return &RecordService{
		records:      records,
		users:        users,
		appointments: appointments,
		store:        store,
		events:       events,
		maxBytes:     maxBytes,
		now:          time.Now,
	}
}

// canAccess reports whether viewer may read or add to patientID's records:
// the patient themselves, or a doctor with an appointment with them.
func (s *RecordService) canAccess(ctx context.Context, viewerID string, role models.Role, patientID string) error {
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
	return apperr.Forbidden("You do not have access to this patient's records")
}

// Upload stores file under the patient's folder and records its metadata.
func (s *RecordService) Upload(ctx context.Context, uploaderID string, role models.Role, patientID string, file Upload) (*models.MedicalRecord, error) {
	if patientID == "" {
		patientID = uploaderID
	}
	if err := file.check(s.maxBytes, recordContentTypes); err != nil {
		return nil, err
	}
	if err := s.canAccess(ctx, uploaderID, role, patientID); err != nil {
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
		return nil, apperr.BadRequest("Medical records can only be attached to patients")
	}

	name := safeFileName(file.FileName)
	key := fmt.Sprintf("%s/%d-%s", patientID, s.now().UnixMilli(), name)
	contentType := baseContentType(file.ContentType)
	if err := s.store.Upload(ctx, storage.BucketMedicalRecords, key, contentType, bytes.NewReader(file.Data), false); err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, apperr.Conflict("A file with this name was just uploaded, please retry")
		}
		return nil, fmt.Errorf("upload medical record: %w", err)
	}

	record := &models.MedicalRecord{
		PatientID:  patientID,
		FileURL:    s.store.PublicURL(storage.BucketMedicalRecords, key),
		FileName:   name,
		FileType:   contentType,
		StorageKey: key,
		UploadedBy: uploaderID,
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.removeBlob(ctx, key)
		return nil, fmt.Errorf("create medical record: %w", err)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventInsert, realtime.TableMedicalRecords,
		record, recipients(patientID, uploaderID)...))
	return record, nil
}

// ListForPatient returns patientID's records, newest first.
func (s *RecordService) ListForPatient(ctx context.Context, viewerID string, role models.Role, patientID string) ([]models.MedicalRecord, error) {
	if err := s.canAccess(ctx, viewerID, role, patientID); err != nil {
		return nil, err
	}
	return s.records.ListByPatient(ctx, patientID)
}

// Download returns a record and its stored file to anyone who may read the
// patient's records.
func (s *RecordService) Download(ctx context.Context, id, viewerID string, role models.Role) (*models.MedicalRecord, *storage.Object, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil, apperr.NotFound("Medical record not found")
		}
		return nil, nil, err
	}
	if err := s.canAccess(ctx, viewerID, role, record.PatientID); err != nil {
		return nil, nil, err
	}

	obj, err := s.store.Download(ctx, storage.BucketMedicalRecords, record.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, apperr.NotFound("Medical record file not found")
		}
		return nil, nil, fmt.Errorf("download medical record: %w", err)
	}
	return record, obj, nil
}

// Delete removes a record. The uploader or the owning patient may delete it.
// The stored file is removed on a best effort basis.
func (s *RecordService) Delete(ctx context.Context, id, userID string) error {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Medical record not found")
		}
		return err
	}
	if record.UploadedBy != userID && record.PatientID != userID {
		return apperr.Forbidden("You cannot delete this medical record")
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete medical record: %w", err)
	}
	if record.StorageKey != "" {
		s.removeBlob(ctx, record.StorageKey)
	}

	publish(ctx, s.events, realtime.NewEvent(realtime.EventDelete, realtime.TableMedicalRecords,
		record, recipients(record.PatientID, record.UploadedBy)...))
	return nil
}

func (s *RecordService) removeBlob(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, storage.BucketMedicalRecords, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to remove medical record file")
	}
}

// recipients returns the distinct non-empty user ids.
func recipients(ids ...string) []string {
	return lo.Uniq(lo.Compact(ids))
}
