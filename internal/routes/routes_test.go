package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/storage"
	"telehealth-app-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}

	cfg := &config.Config{
		Origin:                    "http://localhost:3000",
		JWTSecret:                 "routes-access",
		JWTRefreshSecret:          "routes-refresh",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
		MaxUploadMB:               5,
	}
	hub := realtime.NewHub(zerolog.Nop())

	router := gin.New()
	SetupRoutes(router, Dependencies{
		DB:     db,
		Config: cfg,
		Store:  storage.NewMemoryStore(""),
		Events: hub,
		Hub:    hub,
	})
	return router, cfg
}

func token(t *testing.T, cfg *config.Config, role models.Role) string {
	t.Helper()
	u := &models.User{Role: role}
	u.ID = "user-" + string(role)
	pair, err := utils.GenerateTokens(u, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return pair.AccessToken
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	router, _ := newRouter(t)

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPut, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/doctors"},
		{http.MethodGet, "/api/v1/hospitals"},
		{http.MethodGet, "/api/v1/departments"},
		{http.MethodGet, "/api/v1/appointments"},
		{http.MethodPost, "/api/v1/medical-records"},
		{http.MethodGet, "/api/v1/prescriptions"},
		{http.MethodGet, "/api/v1/medical-records/r1/file"},
		{http.MethodGet, "/api/v1/prescriptions/rx1/file"},
		{http.MethodGet, "/api/v1/users/u1"},
		{http.MethodGet, "/api/v1/messages/threads"},
		{http.MethodPatch, "/api/v1/messages/m1/read"},
		{http.MethodPost, "/api/v1/auth/signout"},
		{http.MethodGet, "/api/v1/realtime/ws"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(r.method, r.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", r.method, r.path, rec.Code)
		}
	}
}

func TestRoutes_RoleRestrictions(t *testing.T) {
	router, cfg := newRouter(t)
	patient := token(t, cfg, models.RolePatient)
	doctor := token(t, cfg, models.RoleDoctor)

	for _, r := range []struct {
		method, path, token string
	}{
		{http.MethodPost, "/api/v1/doctors", patient},
		{http.MethodGet, "/api/v1/doctors/me", patient},
		{http.MethodPost, "/api/v1/doctors/me/logo", patient},
		{http.MethodGet, "/api/v1/appointments/patients", patient},
		{http.MethodPatch, "/api/v1/appointments/a1/status", patient},
		{http.MethodPost, "/api/v1/prescriptions", patient},
		{http.MethodGet, "/api/v1/prescriptions/candidates", patient},
		{http.MethodPost, "/api/v1/appointments", doctor},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set("Authorization", "Bearer "+r.token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", r.method, r.path, rec.Code)
		}
	}
}

func TestRoutes_BadInputNeverReachesStorage(t *testing.T) {
	router, cfg := newRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/a1/status", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, cfg, models.RoleDoctor))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty body, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown route, got %d", rec.Code)
	}
}
