package session

import (
	"context"
	"errors"
	"time"

	"github.com/ifg/eventos-portal/internal/auth"
	"github.com/ifg/eventos-portal/internal/model"
)

// ErrNotFound indica sessão inexistente ou expirada.
var ErrNotFound = errors.New("sessão não encontrada")

// Session guarda o token e os papéis derivados do perfil.
type Session struct {
	ID              string           `json:"id"`
	Token           string           `json:"token,omitempty"`
	Roles           []model.Role     `json:"roles"`
	Usuario         *model.Usuario   `json:"usuario,omitempty"`
	Identidade      *auth.Identidade `json:"identidade,omitempty"`
	PerfilCarregado bool             `json:"perfilCarregado"`
	PendingEventoID int64            `json:"pendingEventoId,omitempty"`
	Encerrando      bool             `json:"encerrando,omitempty"`
	CriadaEm        time.Time        `json:"criadaEm"`
}

// LoggedIn informa se há token e o logout ainda não começou.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != "" && !s.Encerrando
}

// HasRole verifica um papel; sessões deslogadas não têm papéis.
func (s *Session) HasRole(role model.Role) bool {
	if !s.LoggedIn() {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin aplica IsAdmin aos papéis de uma sessão ativa.
func (s *Session) IsAdmin() bool {
	if !s.LoggedIn() {
		return false
	}
	return IsAdmin(s.Roles)
}

// Subject identifica o usuário para logs e rate limit.
func (s *Session) Subject() string {
	if s == nil {
		return ""
	}
	if s.Usuario != nil && s.Usuario.Username != "" {
		return s.Usuario.Username
	}
	if s.Identidade != nil {
		return s.Identidade.Subject
	}
	return ""
}

// IsAdmin indica se algum papel é administrativo.
func IsAdmin(roles []model.Role) bool {
	for _, r := range roles {
		switch r {
		case model.RoleAdminGeral, model.RoleAdminCampus, model.RoleAdminDepartamento:
			return true
		}
	}
	return false
}

// Store persiste sessões por id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
