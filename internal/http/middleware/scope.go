package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/scope"
	"github.com/ifg/eventos-portal/internal/session"
)

// DirectoryFunc devolve o diretório de campus visto com o token da sessão.
type DirectoryFunc func(sess *session.Session) scope.Directory

// Scope resolve a hierarquia administrativa da sessão e a injeta no contexto.
func Scope(resolver *scope.Resolver, directory DirectoryFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.LoggedIn() {
				writeError(w, http.StatusUnauthorized, "AUTH", "faça login para continuar")
				return
			}

			s, err := resolver.Resolve(r.Context(), directory(sess), sess.Usuario, sess.Roles)
			if err != nil {
				log.Error().Err(err).Str("subject", sess.Subject()).Msg("escopo: falha ao resolver hierarquia")
				writeError(w, http.StatusBadGateway, "UPSTREAM", "não foi possível carregar campus e departamentos")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetScope(r.Context(), s)))
		})
	}
}

// SetScope injeta o escopo no contexto.
func SetScope(ctx context.Context, s *scope.Scope) context.Context {
	return context.WithValue(ctx, ContextKeyScope, s)
}

// GetScope retorna o escopo resolvido, ou nil fora das rotas administrativas.
func GetScope(ctx context.Context) *scope.Scope {
	val, _ := ctx.Value(ContextKeyScope).(*scope.Scope)
	return val
}
