package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"carepoint/backend/config"
	"carepoint/backend/internal/api/handler"
	"carepoint/backend/internal/service"
)

func newTestEngine() http.Handler {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionTTL: time.Hour,
			Cookie:     config.CookieConfig{Name: "carepoint_session"},
		},
		Upload: config.UploadConfig{Dir: "./uploads", MaxBytes: 1 << 20},
	}
	svc := &service.Service{}
	h := handler.NewHandler(svc, cfg, nil)
	return Setup(cfg, h, svc.Auth, nil, nil, zap.NewNop())
}

func TestRouter_GuardedRoutesRedirectToLogin(t *testing.T) {
	engine := newTestEngine()

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/admin", "/login/staff"},
		{http.MethodPost, "/admin/staff/create", "/login/staff"},
		{http.MethodGet, "/doctor", "/login/staff"},
		{http.MethodGet, "/doctor/patient/1/export", "/login/staff"},
		{http.MethodGet, "/nurse", "/login/staff"},
		{http.MethodGet, "/radiologist", "/login/staff"},
		{http.MethodPost, "/staff/reports/create", "/login/staff"},
		{http.MethodPost, "/staff/notifications/mark-read/1", "/login/staff"},
		{http.MethodGet, "/patient", "/login/patient"},
		{http.MethodPost, "/patient/notifications/mark-read/1", "/login/patient"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusSeeOther {
			t.Errorf("%s %s: 期望 303，实际: %d", tc.method, tc.path, w.Code)
			continue
		}
		if loc := w.Header().Get("Location"); loc != tc.want {
			t.Errorf("%s %s: 期望跳转 %s，实际: %s", tc.method, tc.path, tc.want, loc)
		}
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	engine := newTestEngine()

	for path, want := range map[string]int{
		"/":        http.StatusOK,
		"/health":  http.StatusOK,
		"/metrics": http.StatusOK,
		"/nowhere": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("GET %s: 期望 %d，实际: %d", path, want, w.Code)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: 缺少 X-Request-ID", path)
		}
	}
}
