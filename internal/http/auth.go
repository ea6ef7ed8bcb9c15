package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/auth"
	httpmiddleware "github.com/ifg/eventos-portal/internal/http/middleware"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/session"
)

// sessaoView é a visão da sessão devolvida ao front-end.
type sessaoView struct {
	Logado          bool             `json:"logado"`
	Usuario         *model.Usuario   `json:"usuario,omitempty"`
	Identidade      *auth.Identidade `json:"identidade,omitempty"`
	Roles           []model.Role     `json:"roles"`
	IsAdmin         bool             `json:"isAdmin"`
	PerfilCarregado bool             `json:"perfilCarregado"`
	PendingEventoID int64            `json:"pendingEventoId,omitempty"`
	Token           string           `json:"token,omitempty"`
}

func viewSessao(sess *session.Session) sessaoView {
	v := sessaoView{Roles: []model.Role{}}
	if !sess.LoggedIn() {
		return v
	}
	v.Logado = true
	v.Usuario = sess.Usuario
	v.Identidade = sess.Identidade
	v.IsAdmin = sess.IsAdmin()
	v.PerfilCarregado = sess.PerfilCarregado
	if len(sess.Roles) > 0 {
		v.Roles = sess.Roles
	}
	return v
}

// Login autentica na API e abre a sessão do portal.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	c := collector(r)
	var cred api.Credenciais
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if err := h.validator.ValidateCredenciais(&cred); err != nil {
		fail(r.Context(), w, c, err)
		return
	}

	h.login(w, r, c, cred)
}

// Registrar cria a conta e já entra com as mesmas credenciais.
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	c := collector(r)
	var reg api.Registro
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if err := h.validator.ValidateRegistro(&reg); err != nil {
		fail(r.Context(), w, c, err)
		return
	}

	if err := h.api.Registrar(r.Context(), reg); err != nil {
		fail(r.Context(), w, c, err)
		return
	}
	c.Notify(r.Context(), notify.Success, "Cadastro realizado com sucesso!")

	h.login(w, r, c, api.Credenciais{Username: reg.Username, Password: reg.Password})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, c *notify.Collector, cred api.Credenciais) {
	ctx := r.Context()
	token, err := h.api.Login(ctx, cred)
	if err != nil {
		if api.IsUnauthorized(err) {
			writeError(w, http.StatusUnauthorized, "AUTH", "Usuário ou senha inválidos.", nil, c.Avisos())
			return
		}
		fail(ctx, w, c, err)
		return
	}

	// reaproveita a sessão anônima para não perder a inscrição pendente
	id := ""
	if prev := httpmiddleware.GetSession(ctx); prev != nil && !prev.Encerrando {
		id = prev.ID
	}
	sess, err := h.sessions.Login(ctx, c, id, token)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	pending, err := h.sessions.TakePendingEvento(ctx, sess.ID)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}

	h.setSessionCookie(w, sess.ID)
	view := viewSessao(sess)
	view.PendingEventoID = pending
	view.Token = token
	respond(w, http.StatusOK, view, c)
}

// Logout encerra a sessão; o registro é apagado após a carência configurada.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c := collector(r)
	if id := httpmiddleware.GetSessionID(r.Context()); id != "" {
		if err := h.sessions.Logout(r.Context(), c, id); err != nil {
			fail(r.Context(), w, c, err)
			return
		}
	}
	h.clearSessionCookie(w)
	respond(w, http.StatusOK, map[string]string{"status": "logged_out"}, c)
}

// Me devolve usuário, papéis e identidade da sessão atual.
// Com ?recarregar=true busca o perfil de novo na API.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := httpmiddleware.GetSession(ctx)
	if r.URL.Query().Get("recarregar") == "true" && sess.ID != "" {
		recarregada, err := h.sessions.Reload(ctx, sess.ID)
		if err != nil {
			fail(ctx, w, nil, err)
			return
		}
		h.scopes.Purge()
		sess = recarregada
	}
	WriteJSON(w, http.StatusOK, viewSessao(sess))
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.SessionTTL),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.sameSite(),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: h.sameSite(),
	})
}

func (h *Handler) sameSite() http.SameSite {
	if h.cfg.CookieSecure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
