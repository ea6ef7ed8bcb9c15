package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/session"
)

type contextKey string

const (
	ContextKeySession contextKey = "session"
	ContextKeySubject contextKey = "subject"
	ContextKeyRoles   contextKey = "roles"
	ContextKeyScope   contextKey = "scope"
)

// SessionCookie guarda o id da sessão do portal.
const SessionCookie = "portal_sessao"

// Sessions é o subconjunto do session.Manager usado pelo middleware.
type Sessions interface {
	Get(ctx context.Context, id string) (*session.Session, error)
	Ephemeral(ctx context.Context, token string) *session.Session
}

// Session carrega a sessão do cookie ou do cabeçalho Bearer. Requisições sem
// sessão seguem anônimas; a exigência de login fica com RequireAuth.
func Session(sessions Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := lookupSession(r, sessions)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

func lookupSession(r *http.Request, sessions Sessions) *session.Session {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
		return sessions.Ephemeral(r.Context(), strings.TrimSpace(parts[1]))
	}

	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	sess, err := sessions.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Warn().Err(err).Msg("sessão: falha ao carregar")
		}
		return nil
	}
	return sess
}

// GetSession recupera a sessão do contexto, logada ou não.
func GetSession(ctx context.Context) *session.Session {
	val, _ := ctx.Value(ContextKeySession).(*session.Session)
	return val
}

// GetSessionID devolve o id da sessão persistida, se houver.
func GetSessionID(ctx context.Context) string {
	if sess := GetSession(ctx); sess != nil {
		return sess.ID
	}
	return ""
}

// GetSubject recupera subject do contexto.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetRoles recupera roles do contexto.
func GetRoles(ctx context.Context) []model.Role {
	val, _ := ctx.Value(ContextKeyRoles).([]model.Role)
	return val
}

// WithSession injeta uma sessão no contexto.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, ContextKeySession, sess)
	if sess.LoggedIn() {
		ctx = context.WithValue(ctx, ContextKeySubject, sess.Subject())
		ctx = context.WithValue(ctx, ContextKeyRoles, sess.Roles)
	}
	return ctx
}

// RequireAuth exige sessão logada.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).LoggedIn() {
			writeError(w, http.StatusUnauthorized, "AUTH", "faça login para continuar")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin exige algum papel administrativo.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(model.RoleAdminGeral, model.RoleAdminCampus, model.RoleAdminDepartamento)(next)
}

// RequireRoles garante que a sessão possua pelo menos um dos papéis informados.
func RequireRoles(required ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.LoggedIn() {
				writeError(w, http.StatusUnauthorized, "AUTH", "faça login para continuar")
				return
			}
			for _, role := range required {
				if sess.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito à administração")
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
