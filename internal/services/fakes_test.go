package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
)

var (
	_ repositories.UserRepository          = (*fakeUsers)(nil)
	_ repositories.DoctorRepository        = (*fakeDoctors)(nil)
	_ repositories.HospitalRepository      = (*fakeHospitals)(nil)
	_ repositories.AppointmentRepository   = (*fakeAppointments)(nil)
	_ repositories.MedicalRecordRepository = (*fakeRecords)(nil)
	_ repositories.PrescriptionRepository  = (*fakePrescriptions)(nil)
	_ repositories.MessageRepository       = (*fakeMessages)(nil)
	_ repositories.RefreshTokenRepository  = (*fakeTokens)(nil)
)

func newID() string { return uuid.NewString() }

// --- users ---

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]models.User
	createErr error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if u.ID == "" {
		u.ID = newID()
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
			u := u
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
	// Unordered, like an IN query.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = *u
	return nil
}

// --- doctors ---

type fakeDoctors struct {
	byUser map[string]models.Doctor
}

func newFakeDoctors(doctors ...models.Doctor) *fakeDoctors {
	f := &fakeDoctors{byUser: map[string]models.Doctor{}}
	for _, d := range doctors {
		f.byUser[d.UserID] = d
	}
	return f
}

func (f *fakeDoctors) Create(_ context.Context, d *models.Doctor) error {
	if d.ID == "" {
		d.ID = newID()
	}
	f.byUser[d.UserID] = *d
	return nil
}

func (f *fakeDoctors) Update(_ context.Context, d *models.Doctor) error {
	f.byUser[d.UserID] = *d
	return nil
}

func (f *fakeDoctors) GetByUserID(_ context.Context, userID string) (*models.Doctor, error) {
	d, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (f *fakeDoctors) List(_ context.Context, filter repositories.DoctorFilter) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range f.byUser {
		if filter.Specialization != "" && d.Specialization != filter.Specialization {
			continue
		}
		if filter.HospitalID != "" && d.HospitalID != filter.HospitalID {
			continue
		}
		if filter.DepartmentID != "" && d.DepartmentID != filter.DepartmentID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- hospitals ---

type fakeHospitals struct {
	hospitals   []models.Hospital
	departments []models.Department
}

func (f *fakeHospitals) List(context.Context) ([]models.Hospital, error) {
	return f.hospitals, nil
}

func (f *fakeHospitals) GetByID(_ context.Context, id string) (*models.Hospital, error) {
	for _, h := range f.hospitals {
		if h.ID == id {
			h := h
			return &h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeHospitals) ListDepartments(_ context.Context, hospitalID string) ([]models.Department, error) {
	var out []models.Department
	for _, d := range f.departments {
		if hospitalID == "" || d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	return out, nil
}

// --- appointments ---

type fakeAppointments struct {
	mu    sync.Mutex
	items []models.Appointment
	users *fakeUsers
}

func (f *fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAppointments) Update(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == a.ID {
			f.items[i].Status = a.Status
			f.items[i].Notes = a.Notes
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeAppointments) list(match func(models.Appointment) bool) []models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.items {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (f *fakeAppointments) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	return f.list(func(a models.Appointment) bool { return a.PatientID == patientID }), nil
}

func (f *fakeAppointments) ListByDoctor(ctx context.Context, doctorID string, withPatient bool) ([]models.Appointment, error) {
	out := f.list(func(a models.Appointment) bool { return a.DoctorID == doctorID })
	if withPatient && f.users != nil {
		for i := range out {
			if p, err := f.users.GetByID(ctx, out[i].PatientID); err == nil {
				out[i].Patient = p
			}
		}
	}
	return out, nil
}

// --- records & prescriptions ---

type fakeRecords struct {
	items     []models.MedicalRecord
	createErr error
}

func (f *fakeRecords) Create(_ context.Context, r *models.MedicalRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	if r.ID == "" {
		r.ID = newID()
	}
	r.CreatedAt = time.Now()
	f.items = append(f.items, *r)
	return nil
}

func (f *fakeRecords) GetByID(_ context.Context, id string) (*models.MedicalRecord, error) {
	for _, r := range f.items {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecords) ListByPatient(_ context.Context, patientID string) ([]models.MedicalRecord, error) {
	var out []models.MedicalRecord
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].PatientID == patientID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeRecords) Delete(_ context.Context, id string) error {
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePrescriptions struct {
	items []models.Prescription
}

func (f *fakePrescriptions) Create(_ context.Context, p *models.Prescription) error {
	if p.ID == "" {
		p.ID = newID()
	}
	f.items = append(f.items, *p)
	return nil
}

func (f *fakePrescriptions) GetByID(_ context.Context, id string) (*models.Prescription, error) {
	for _, p := range f.items {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePrescriptions) ListByPatient(_ context.Context, patientID string) ([]models.Prescription, error) {
	var out []models.Prescription
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].PatientID == patientID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakePrescriptions) ListByDoctor(_ context.Context, doctorID string) ([]models.Prescription, error) {
	var out []models.Prescription
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].DoctorID == doctorID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

// --- messages ---

type fakeMessages struct {
	items     []models.Message
	markCalls int
	// concurrentRead, when set, is applied as another request's read
	// just before MarkRead runs its conditional update.
	concurrentRead *time.Time
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeMessages) GetByID(_ context.Context, id string) (*models.Message, error) {
	for _, m := range f.items {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessages) filter(match func(models.Message) bool) []models.Message {
	var out []models.Message
	for _, m := range f.items {
		if match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessages) Conversation(_ context.Context, a, b string) ([]models.Message, error) {
	return f.filter(func(m models.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}), nil
}

func (f *fakeMessages) ByAppointment(_ context.Context, appointmentID string) ([]models.Message, error) {
	return f.filter(func(m models.Message) bool {
		return m.AppointmentID != nil && *m.AppointmentID == appointmentID
	}), nil
}

func (f *fakeMessages) ForUser(_ context.Context, userID string) ([]models.Message, error) {
	return f.filter(func(m models.Message) bool { return m.SenderID == userID || m.ReceiverID == userID }), nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id string, at time.Time) (bool, error) {
	f.markCalls++
	marked := false
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if f.concurrentRead != nil && f.items[i].ReadAt == nil {
			f.items[i].ReadAt = f.concurrentRead
		}
		if f.items[i].ReadAt == nil {
			f.items[i].ReadAt = &at
			marked = true
		}
	}
	return marked, nil
}

// --- refresh tokens ---

type fakeTokens struct {
	items []models.RefreshToken
}

func (f *fakeTokens) Create(_ context.Context, t *models.RefreshToken) error {
	if t.ID == "" {
		t.ID = newID()
	}
	f.items = append(f.items, *t)
	return nil
}

func (f *fakeTokens) FindActive(_ context.Context, userID, token string, now time.Time) (*models.RefreshToken, error) {
	for _, t := range f.items {
		if t.UserID == userID && t.Token == token && t.Active(now) {
			t := t
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTokens) Revoke(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, userID, token string) error {
	for i := range f.items {
		if f.items[i].UserID == userID && f.items[i].Token == token {
			f.items[i].IsRevoked = true
		}
	}
	return nil
}

func (f *fakeTokens) Purge(_ context.Context, now time.Time) (int64, error) {
	var kept []models.RefreshToken
	for _, t := range f.items {
		if t.Active(now) {
			kept = append(kept, t)
		}
	}
	n := int64(len(f.items) - len(kept))
	f.items = kept
	return n, nil
}

// --- events ---

type recordedEvents struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recordedEvents) Publish(_ context.Context, e realtime.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) last() realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return realtime.Event{}
	}
	return r.events[len(r.events)-1]
}

// --- fixtures ---

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-access",
		JWTRefreshSecret:          "test-refresh",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
	}
}

func user(id string, role models.Role) models.User {
	u := models.User{Name: "User " + id, Email: id + "@example.com", Role: role, IsActive: true}
	u.ID = id
	return u
}

func appointment(id, patientID, doctorID string, status models.AppointmentStatus, date time.Time) models.Appointment {
	a := models.Appointment{PatientID: patientID, DoctorID: doctorID, Status: status, Date: date}
	a.ID = id
	return a
}
