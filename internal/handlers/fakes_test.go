package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]models.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = *u
	return nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens []models.RefreshToken
}

func (f *fakeTokens) Create(_ context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.tokens = append(f.tokens, *t)
	return nil
}

func (f *fakeTokens) FindActive(_ context.Context, userID, token string, now time.Time) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.UserID == userID && t.Token == token && t.Active(now) {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokens) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		if f.tokens[i].ID == id {
			f.tokens[i].IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tokens {
		if f.tokens[i].UserID == userID && f.tokens[i].Token == token {
			f.tokens[i].IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) Purge(context.Context, time.Time) (int64, error) { return 0, nil }

type fakeAppointments struct {
	mu   sync.Mutex
	byID map[string]models.Appointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{byID: map[string]models.Appointment{}}
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) Update(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeAppointments) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *fakeAppointments) ListByDoctor(_ context.Context, doctorID string, _ bool) ([]models.Appointment, error) {
	return f.filter(func(a models.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (f *fakeAppointments) filter(keep func(models.Appointment) bool) []models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.byID {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type fakeRecords struct {
	mu      sync.Mutex
	records []models.MedicalRecord
}

func (f *fakeRecords) Create(_ context.Context, r *models.MedicalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeRecords) GetByID(_ context.Context, id string) (*models.MedicalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecords) ListByPatient(_ context.Context, patientID string) ([]models.MedicalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MedicalRecord
	for _, r := range f.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePrescriptions struct {
	mu    sync.Mutex
	items []models.Prescription
}

func (f *fakePrescriptions) Create(_ context.Context, p *models.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.items = append(f.items, *p)
	return nil
}

func (f *fakePrescriptions) GetByID(_ context.Context, id string) (*models.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePrescriptions) list(keep func(models.Prescription) bool) []models.Prescription {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Prescription
	for _, p := range f.items {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakePrescriptions) ListByPatient(_ context.Context, patientID string) ([]models.Prescription, error) {
	return f.list(func(p models.Prescription) bool { return p.PatientID == patientID }), nil
}

func (f *fakePrescriptions) ListByDoctor(_ context.Context, doctorID string) ([]models.Prescription, error) {
	return f.list(func(p models.Prescription) bool { return p.DoctorID == doctorID }), nil
}

// fakeDoctors has no doctor profiles, so prescriptions are never stamped.
type fakeDoctors struct{}

func (fakeDoctors) Create(context.Context, *models.Doctor) error { return nil }
func (fakeDoctors) Update(context.Context, *models.Doctor) error { return nil }
func (fakeDoctors) GetByUserID(context.Context, string) (*models.Doctor, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeDoctors) List(context.Context, repositories.DoctorFilter) ([]models.Doctor, error) {
	return nil, nil
}
