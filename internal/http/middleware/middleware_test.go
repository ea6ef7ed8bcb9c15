package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/session"
)

type stubSessions struct {
	byID      map[string]*session.Session
	ephemeral []string
}

func (s *stubSessions) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.byID[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (s *stubSessions) Ephemeral(_ context.Context, token string) *session.Session {
	s.ephemeral = append(s.ephemeral, token)
	return &session.Session{Token: token, Roles: []model.Role{model.RoleUser}}
}

func gate(sessions Sessions, mw func(http.Handler) http.Handler) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return Session(sessions)(mw(ok))
}

func TestSessionFromCookieAndBearer(t *testing.T) {
	sessions := &stubSessions{byID: map[string]*session.Session{
		"abc": {ID: "abc", Token: "tok", Roles: []model.Role{model.RoleAdminCampus}},
		"enc": {ID: "enc", Token: "tok", Encerrando: true},
	}}

	tests := []struct {
		name   string
		cookie string
		bearer string
		status int
	}{
		{"anonymous", "", "", http.StatusUnauthorized},
		{"cookie", "abc", "", http.StatusNoContent},
		{"unknown cookie", "zzz", "", http.StatusUnauthorized},
		{"logging out", "enc", "", http.StatusUnauthorized},
		{"bearer", "", "tok-x", http.StatusNoContent},
	}

	h := gate(sessions, RequireAuth)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
	if len(sessions.ephemeral) != 1 || sessions.ephemeral[0] != "tok-x" {
		t.Fatalf("expected one ephemeral session, got %v", sessions.ephemeral)
	}
}

func TestRequireRoles(t *testing.T) {
	sessions := &stubSessions{byID: map[string]*session.Session{
		"campus": {ID: "campus", Token: "t1", Roles: []model.Role{model.RoleAdminCampus}},
		"depto":  {ID: "depto", Token: "t2", Roles: []model.Role{model.RoleAdminDepartamento}},
		"user":   {ID: "user", Token: "t3", Roles: []model.Role{model.RoleUser}},
	}}

	usuarios := gate(sessions, RequireRoles(model.RoleAdminGeral, model.RoleAdminCampus))
	admin := gate(sessions, RequireAdmin)

	tests := []struct {
		name    string
		handler http.Handler
		id      string
		status  int
	}{
		{"campus manages users", usuarios, "campus", http.StatusNoContent},
		{"depto cannot manage users", usuarios, "depto", http.StatusForbidden},
		{"depto is admin", admin, "depto", http.StatusNoContent},
		{"user is not admin", admin, "user", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.id})
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestIPRateLimit(t *testing.T) {
	limiter := newRateLimiter(1, 2, time.Minute)
	h := IPRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/eventos", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/eventos", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other clients must keep their own bucket, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://eventos.ifg.edu.br", "*.ifg.edu.br"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		allow  bool
	}{
		{"https://eventos.ifg.edu.br", true},
		{"https://goiania.ifg.edu.br", true},
		{"https://ifg.edu.br", false},
		{"https://exemplo.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/eventos", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("preflight: expected 204, got %d", rec.Code)
		}
		got := rec.Header().Get("Access-Control-Allow-Origin") == tt.origin
		if got != tt.allow {
			t.Fatalf("origin %s: allow=%v", tt.origin, got)
		}
	}
}
