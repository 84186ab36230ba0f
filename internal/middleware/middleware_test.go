package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "mw-access",
		JWTRefreshSecret:          "mw-refresh",
		JWTExpirationMinutes:      5,
		JWTRefreshExpirationHours: 1,
	}
}

func tokenFor(t *testing.T, cfg *config.Config, id string, role models.Role) utils.TokenPair {
	t.Helper()
	u := &models.User{Role: role}
	u.ID = id
	pair, err := utils.GenerateTokens(u, cfg)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	return pair
}

func newRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		role, _ := GetUserRoleFromContext(c)
		c.String(http.StatusOK, id+"|"+string(role))
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := newRouter(cfg)
	pair := tokenFor(t, cfg, "u1", models.RolePatient)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"valid", "Bearer " + pair.AccessToken, http.StatusOK},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Errorf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
			if tc.code == http.StatusOK && rec.Body.String() != "u1|patient" {
				t.Errorf("unexpected body: %s", rec.Body.String())
			}
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := newRouter(cfg, RoleAuthMiddleware(models.RoleDoctor))

	for _, tc := range []struct {
		role models.Role
		code int
	}{
		{models.RoleDoctor, http.StatusOK},
		{models.RolePatient, http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, "u1", tc.role).AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.code {
			t.Errorf("role %s: expected %d, got %d", tc.role, tc.code, rec.Code)
		}
	}
}

func TestQueryTokenAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.GET("/ws", QueryTokenAuthMiddleware(cfg), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?token="+tokenFor(t, cfg, "u9", models.RoleDoctor).AccessToken, nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "u9" {
		t.Errorf("expected 200 u9, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), Logger(logger), Recovery())
	r.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "req-123" {
		t.Errorf("expected request id echoed, got %q", rec.Header().Get(RequestIDHeader))
	}
	out := buf.String()
	if strings.Count(out, `"request_id":"req-123"`) != 2 {
		t.Errorf("expected handler and access log lines to carry request id:\n%s", out)
	}

	buf.Reset()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}
	if !strings.Contains(buf.String(), "recovered from panic") {
		t.Errorf("expected panic to be logged:\n%s", buf.String())
	}
}
