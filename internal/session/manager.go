package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ifg/eventos-portal/internal/auth"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
)

const (
	MsgLogin  = "Login realizado com sucesso!"
	MsgLogout = "Você saiu do sistema."
)

// ProfileLoader busca o perfil do dono de um token.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, token string) (*model.Usuario, error)
}

// TipoMudanca identifica transições de sessão.
type TipoMudanca string

const (
	Entrou TipoMudanca = "login"
	Saiu   TipoMudanca = "logout"
)

// Mudanca é enviada aos ouvintes em login e logout.
type Mudanca struct {
	Tipo    TipoMudanca
	Session Session
}

// Listener recebe mudanças de sessão.
type Listener func(Mudanca)

// Options ajusta o comportamento do Manager.
type Options struct {
	TTL         time.Duration
	LogoutGrace time.Duration
	Logger      zerolog.Logger
}

// Manager implementa login, logout e papéis sobre um Store.
type Manager struct {
	store    Store
	profiles ProfileLoader
	ttl      time.Duration
	grace    time.Duration
	logger   zerolog.Logger

	mu        sync.RWMutex
	listeners []Listener
	pending   sync.WaitGroup
}

func NewManager(store Store, profiles ProfileLoader, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Manager{
		store:    store,
		profiles: profiles,
		ttl:      ttl,
		grace:    opts.LogoutGrace,
		logger:   opts.Logger,
	}
}

// Subscribe registra um ouvinte de login e logout.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) emit(tipo TipoMudanca, s *Session) {
	m.mu.RLock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.RUnlock()
	for _, l := range listeners {
		l(Mudanca{Tipo: tipo, Session: *s})
	}
}

// Get devolve a sessão, inclusive anônima ou em encerramento.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// Login grava o token antes de buscar o perfil. Enquanto o perfil não chega,
// a sessão já aparece logada, mas sem papéis.
func (m *Manager) Login(ctx context.Context, n notify.Notifier, id, token string) (*Session, error) {
	if token == "" {
		return nil, errors.New("token vazio")
	}
	if id == "" {
		id = uuid.NewString()
	}

	sess := &Session{ID: id, Token: token, CriadaEm: time.Now()}
	if prev, err := m.store.Get(ctx, id); err == nil {
		sess.PendingEventoID = prev.PendingEventoID
	}

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, fmt.Errorf("salvar sessão: %w", err)
	}

	m.attachProfile(ctx, sess)

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, fmt.Errorf("salvar sessão: %w", err)
	}

	m.logger.Info().Str("subject", sess.Subject()).Bool("admin", sess.IsAdmin()).Msg("sessão: login")
	n.Notify(ctx, notify.Success, MsgLogin)
	m.emit(Entrou, sess)
	return sess, nil
}

// Ephemeral monta uma sessão não persistida para um token recebido por cabeçalho.
func (m *Manager) Ephemeral(ctx context.Context, token string) *Session {
	sess := &Session{Token: token, CriadaEm: time.Now()}
	m.attachProfile(ctx, sess)
	return sess
}

func (m *Manager) attachProfile(ctx context.Context, sess *Session) {
	user, err := m.profiles.LoadProfile(ctx, sess.Token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("sessão: perfil indisponível, usando identidade do token")
		if ident, decErr := auth.DecodeUnverified(sess.Token); decErr == nil {
			sess.Identidade = ident
		}
		return
	}
	sess.Usuario = user
	sess.Roles = append([]model.Role(nil), user.Roles...)
	sess.PerfilCarregado = true
}

// Reload busca o perfil novamente, por exemplo após mudança de papéis.
func (m *Manager) Reload(ctx context.Context, id string) (*Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.LoggedIn() {
		return sess, nil
	}
	user, err := m.profiles.LoadProfile(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	sess.Usuario = user
	sess.Roles = append([]model.Role(nil), user.Roles...)
	sess.PerfilCarregado = true
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, fmt.Errorf("salvar sessão: %w", err)
	}
	return sess, nil
}

// Logout retira o acesso imediatamente e apaga a sessão após o período de carência.
func (m *Manager) Logout(ctx context.Context, n notify.Notifier, id string) error {
	sess, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	sess.Encerrando = true
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return fmt.Errorf("salvar sessão: %w", err)
	}

	n.Notify(ctx, notify.Info, MsgLogout)
	m.emit(Saiu, sess)

	if m.grace <= 0 {
		return m.store.Delete(ctx, id)
	}

	m.pending.Add(1)
	time.AfterFunc(m.grace, func() {
		defer m.pending.Done()
		if err := m.store.Delete(context.Background(), id); err != nil {
			m.logger.Error().Err(err).Msg("sessão: falha ao apagar sessão encerrada")
		}
	})
	return nil
}

// Drain aguarda remoções pendentes de logout.
func (m *Manager) Drain() {
	m.pending.Wait()
}

// SetPendingEvento lembra um evento para inscrição após o login.
// Cria uma sessão anônima quando id é vazio e devolve o id usado.
func (m *Manager) SetPendingEvento(ctx context.Context, id string, eventoID int64) (string, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		if id == "" {
			id = uuid.NewString()
		}
		sess = &Session{ID: id, CriadaEm: time.Now()}
	}
	sess.PendingEventoID = eventoID
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return "", fmt.Errorf("salvar sessão: %w", err)
	}
	return sess.ID, nil
}

// TakePendingEvento devolve e limpa o evento pendente.
func (m *Manager) TakePendingEvento(ctx context.Context, id string) (int64, error) {
	sess, err := m.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	eventoID := sess.PendingEventoID
	if eventoID == 0 {
		return 0, nil
	}
	sess.PendingEventoID = 0
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return 0, fmt.Errorf("salvar sessão: %w", err)
	}
	return eventoID, nil
}
