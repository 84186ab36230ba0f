package services

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"testing"

	"telehealth-app-server/internal/apperr"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/storage"
)

func newDoctorService() (*DoctorService, *storage.MemoryStore) {
	users := newFakeUsers(user("d1", models.RoleDoctor), user("d2", models.RoleDoctor), user("p1", models.RolePatient))
	h := models.Hospital{Name: "General"}
	h.ID = "h1"
	dep := models.Department{HospitalID: "h1", Name: "Cardiology"}
	dep.ID = "dep1"
	other := models.Department{HospitalID: "h2", Name: "Oncology"}
	other.ID = "dep2"
	hospitals := &fakeHospitals{hospitals: []models.Hospital{h}, departments: []models.Department{dep, other}}
	store := storage.NewMemoryStore("http://files.test")
	return NewDoctorService(newFakeDoctors(), users, hospitals, store), store
}

func TestDoctorCreate(t *testing.T) {
	svc, _ := newDoctorService()
	ctx := context.Background()

	d, err := svc.Create(ctx, "d1", CreateDoctorInput{HospitalID: "h1", DepartmentID: "dep1", Specialization: " Cardiology "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "User d1" || d.Email != "d1@example.com" || d.Specialization != "Cardiology" {
		t.Errorf("unexpected doctor: %+v", d)
	}

	if _, err := svc.Create(ctx, "d1", CreateDoctorInput{}); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %v", err)
	}
	if _, err := svc.Create(ctx, "p1", CreateDoctorInput{}); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected 403 for patient, got %v", err)
	}
	if _, err := svc.Create(ctx, "d2", CreateDoctorInput{HospitalID: "h1", DepartmentID: "dep2"}); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for foreign department, got %v", err)
	}
	if _, err := svc.Create(ctx, "d2", CreateDoctorInput{HospitalID: "h9"}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown hospital, got %v", err)
	}
}

func TestDoctorList_Filters(t *testing.T) {
	svc, _ := newDoctorService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, "d1", CreateDoctorInput{HospitalID: "h1", Specialization: "Cardiology"})
	_, _ = svc.Create(ctx, "d2", CreateDoctorInput{Specialization: "Dermatology"})

	all, _ := svc.List(ctx, repositories.DoctorFilter{})
	if len(all) != 2 {
		t.Errorf("expected 2 doctors, got %d", len(all))
	}
	cardio, _ := svc.List(ctx, repositories.DoctorFilter{Specialization: "Cardiology"})
	if len(cardio) != 1 || cardio[0].UserID != "d1" {
		t.Errorf("unexpected specialization filter result: %+v", cardio)
	}
	byHospital, _ := svc.List(ctx, repositories.DoctorFilter{HospitalID: "h1"})
	if len(byHospital) != 1 {
		t.Errorf("unexpected hospital filter result: %+v", byHospital)
	}
}

func TestDoctorLogo(t *testing.T) {
	svc, store := newDoctorService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, "d1", CreateDoctorInput{})

	if _, err := svc.Logo(ctx, "d1"); !errors.Is(err, apperr.ErrNoContent) {
		t.Errorf("expected no content before upload, got %v", err)
	}

	png := pngBytes(t, 8, 8, color.Black)
	d, err := svc.UploadLogo(ctx, "d1", "image/png", png)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.LogoURL != "http://files.test/logos/d1" {
		t.Errorf("unexpected logo url: %s", d.LogoURL)
	}

	// Replacing the logo overwrites the same object.
	if _, err := svc.UploadLogo(ctx, "d1", "image/png", pngBytes(t, 4, 4, color.White)); err != nil {
		t.Fatalf("replace logo: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected one stored logo, got %d", store.Len())
	}

	obj, err := svc.Logo(ctx, "d1")
	if err != nil || obj.ContentType != "image/png" {
		t.Errorf("unexpected logo: %v, %v", obj, err)
	}

	if _, err := svc.UploadLogo(ctx, "d1", "application/pdf", []byte("%PDF")); statusOf(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for pdf logo, got %v", err)
	}
	if _, err := svc.UploadLogo(ctx, "d2", "image/png", png); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 without doctor profile, got %v", err)
	}
}

func TestHospitalService(t *testing.T) {
	h := models.Hospital{Name: "General"}
	h.ID = "h1"
	dep := models.Department{HospitalID: "h1", Name: "Cardiology"}
	svc := NewHospitalService(&fakeHospitals{hospitals: []models.Hospital{h}, departments: []models.Department{dep}})
	ctx := context.Background()

	if deps, err := svc.Departments(ctx, "h1"); err != nil || len(deps) != 1 {
		t.Errorf("unexpected departments: %v, %v", deps, err)
	}
	if _, err := svc.Departments(ctx, "h2"); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
	if all, _ := svc.AllDepartments(ctx); len(all) != 1 {
		t.Errorf("expected all departments")
	}
}

func TestDashboard(t *testing.T) {
	appts, _, _ := newAppointmentService(
		appointment("a1", "p1", "d1", models.StatusScheduled, baseTime),
		appointment("a2", "p2", "d1", models.StatusCompleted, baseTime),
	)
	users := NewUserService(newFakeUsers(user("d1", models.RoleDoctor), user("p1", models.RolePatient)), &fakeAppointments{})
	svc := NewDashboardService(users, appts)

	d, err := svc.Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stats.Waiting != 1 || d.Stats.Completed != 1 || d.Stats.Total != 2 {
		t.Errorf("unexpected stats: %+v", d.Stats)
	}
	if len(d.QuickActions) != 4 || d.QuickActions[3].ID != "prescriptions" {
		t.Errorf("unexpected doctor actions: %+v", d.QuickActions)
	}

	p, _ := svc.Get(context.Background(), "p1")
	if p.QuickActions[0].Route != "/patient/appointments" {
		t.Errorf("unexpected patient actions: %+v", p.QuickActions)
	}
}
