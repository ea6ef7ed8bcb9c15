package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ifg/eventos-portal/internal/auth"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
)

type stubProfiles struct {
	user   *model.Usuario
	err    error
	during func()
}

func (s *stubProfiles) LoadProfile(ctx context.Context, token string) (*model.Usuario, error) {
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func signedToken(t *testing.T, subject string) string {
	t.Helper()
	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("x"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestLoginDerivesRolesAfterPersistingToken(t *testing.T) {
	store := NewMemoryStore()
	profiles := &stubProfiles{user: &model.Usuario{Username: "ana@ifg.edu.br", Roles: []model.Role{model.RoleAdminCampus}}}
	mgr := NewManager(store, profiles, Options{Logger: zerolog.Nop()})

	profiles.during = func() {
		sess, err := store.Get(context.Background(), "s1")
		if err != nil {
			t.Errorf("token must be stored before profile fetch: %v", err)
			return
		}
		if !sess.LoggedIn() || sess.IsAdmin() {
			t.Errorf("expected logged in without roles while profile loads, got %+v", sess)
		}
	}

	collector := notify.NewCollector(false)
	sess, err := mgr.Login(context.Background(), collector, "s1", "tok")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.IsAdmin() || !sess.PerfilCarregado {
		t.Fatalf("expected admin session, got %+v", sess)
	}
	avisos := collector.Avisos()
	if len(avisos) != 1 || avisos[0].Mensagem != MsgLogin || avisos[0].Tipo != notify.Success {
		t.Fatalf("unexpected notices %+v", avisos)
	}
}

func TestLoginFallsBackToTokenIdentity(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), &stubProfiles{err: errors.New("offline")}, Options{Logger: zerolog.Nop()})

	sess, err := mgr.Login(context.Background(), notify.Discard{}, "", signedToken(t, "bia@ifg.edu.br"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !sess.LoggedIn() || sess.IsAdmin() || len(sess.Roles) != 0 {
		t.Fatalf("expected unprivileged logged in session, got %+v", sess)
	}
	if sess.Subject() != "bia@ifg.edu.br" {
		t.Fatalf("unexpected subject %q", sess.Subject())
	}
}

func TestLogoutRevokesImmediatelyAndDeletesLater(t *testing.T) {
	store := NewMemoryStore()
	profiles := &stubProfiles{user: &model.Usuario{Roles: []model.Role{model.RoleAdminGeral}}}
	mgr := NewManager(store, profiles, Options{LogoutGrace: 20 * time.Millisecond, Logger: zerolog.Nop()})
	ctx := context.Background()

	var mudancas []TipoMudanca
	mgr.Subscribe(func(m Mudanca) { mudancas = append(mudancas, m.Tipo) })

	if _, err := mgr.Login(ctx, notify.Discard{}, "s1", "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}

	collector := notify.NewCollector(false)
	if err := mgr.Logout(ctx, collector, "s1"); err != nil {
		t.Fatalf("logout: %v", err)
	}

	sess, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("session must survive the grace period: %v", err)
	}
	if sess.LoggedIn() || sess.IsAdmin() {
		t.Fatalf("affordances must be revoked immediately")
	}

	mgr.Drain()
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected session deleted, got %v", err)
	}
	if len(mudancas) != 2 || mudancas[0] != Entrou || mudancas[1] != Saiu {
		t.Fatalf("unexpected changes %v", mudancas)
	}
	if avisos := collector.Avisos(); len(avisos) != 1 || avisos[0].Mensagem != MsgLogout {
		t.Fatalf("unexpected notices %+v", avisos)
	}
}

func TestPendingEventoSurvivesLogin(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), &stubProfiles{user: &model.Usuario{}}, Options{Logger: zerolog.Nop()})
	ctx := context.Background()

	id, err := mgr.SetPendingEvento(ctx, "", 42)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if _, err := mgr.Login(ctx, notify.Discard{}, id, "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := mgr.TakePendingEvento(ctx, id)
	if err != nil || got != 42 {
		t.Fatalf("expected 42, got %d (%v)", got, err)
	}
	if again, _ := mgr.TakePendingEvento(ctx, id); again != 0 {
		t.Fatalf("pending must be cleared, got %d", again)
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		roles []model.Role
		want  bool
	}{
		{nil, false},
		{[]model.Role{model.RoleUser}, false},
		{[]model.Role{model.RoleUser, model.RoleAdminDepartamento}, true},
		{[]model.Role{model.RoleAdminCampus}, true},
		{[]model.Role{model.RoleAdminGeral}, true},
	}
	for _, tc := range tests {
		if got := IsAdmin(tc.roles); got != tc.want {
			t.Fatalf("IsAdmin(%v) = %v", tc.roles, got)
		}
	}
}

func TestEphemeralIsNotPersisted(t *testing.T) {
	store := NewMemoryStore()
	profiles := &stubProfiles{err: errors.New("offline")}
	mgr := NewManager(store, profiles, Options{Logger: zerolog.Nop()})

	sess := mgr.Ephemeral(context.Background(), signedToken(t, "bia@ifg.edu.br"))
	if !sess.LoggedIn() || sess.IsAdmin() || sess.Subject() != "bia@ifg.edu.br" {
		t.Fatalf("unexpected ephemeral session %+v", sess)
	}
	if sess.ID != "" {
		t.Fatalf("ephemeral sessions have no id")
	}
}
