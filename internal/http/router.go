package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/config"
	"github.com/ifg/eventos-portal/internal/form"
	httpmiddleware "github.com/ifg/eventos-portal/internal/http/middleware"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/monitor"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
	"github.com/ifg/eventos-portal/internal/session"
)

// Deps reúne as dependências do portal montadas no main.
type Deps struct {
	Config    *config.Config
	API       *api.Client
	Redis     *redis.Client
	Sessions  *session.Manager
	Scopes    *scope.Resolver
	Validator *form.Validator
	Monitor   *monitor.Service
	// Extras recebem cópia dos avisos das ações administrativas (ex.: Slack).
	Extras []notify.Notifier
	Now    func() time.Time
}

type Handler struct {
	cfg           *config.Config
	api           *api.Client
	redis         *redis.Client
	sessions      *session.Manager
	scopes        *scope.Resolver
	validator     *form.Validator
	monitor       *monitor.Service
	extras        []notify.Notifier
	catalog       *catalogCache
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
	now           func() time.Time
}

// NewRouter devolve roteador configurado.
func NewRouter(d Deps) (http.Handler, error) {
	if d.Config == nil || d.API == nil || d.Sessions == nil {
		return nil, errors.New("http: config, api e sessões são obrigatórios")
	}
	if d.Scopes == nil {
		d.Scopes = scope.NewResolver(d.Config.ScopeCache.Size, d.Config.ScopeCache.TTL, httpLogger("scope"))
	}
	if d.Validator == nil {
		d.Validator = form.NewValidator()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	h := &Handler{
		cfg:           d.Config,
		api:           d.API,
		redis:         d.Redis,
		sessions:      d.Sessions,
		scopes:        d.Scopes,
		validator:     d.Validator,
		monitor:       d.Monitor,
		extras:        d.Extras,
		catalog:       newCatalogCache(d.Redis, d.Config.CatalogCacheTTL),
		publicLimiter: httpmiddleware.NewRateLimiter(d.Config.RateLimitPublic.RequestsPerSecond, d.Config.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(d.Config.RateLimitAuth.RequestsPerSecond, d.Config.RateLimitAuth.Burst),
		now:           d.Now,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Metrics)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(d.Config.AllowOrigins))
	r.Use(httpmiddleware.Session(d.Sessions))
	r.Use(httpmiddleware.Logging)

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)
		public.Method(http.MethodGet, "/metrics", promhttp.Handler())

		public.Get("/eventos", h.ListEventos)
		public.Get("/eventos/{id}", h.GetEvento)
		public.Post("/eventos/{id}/pendente", h.SetPendente)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/registrar", h.Registrar)
			auth.Post("/logout", h.Logout)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireAuth)
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)
		private.Get("/eventos/{id}/formulario", h.Formulario)
		private.Post("/eventos/{id}/inscricao", h.Inscrever)
		private.Get("/inscricoes", h.MinhasInscricoes)
		private.Delete("/inscricoes/{id}", h.CancelarInscricao)
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(httpmiddleware.RequireAdmin)
	adminRouter.Use(httpmiddleware.UserRateLimit(h.authLimiter))
	adminRouter.Use(httpmiddleware.Scope(h.scopes, h.directory))

	adminRouter.Get("/hierarquia", h.Hierarquia)
	adminRouter.Route("/campus", func(c chi.Router) {
		c.Post("/", h.CreateCampus)
		c.Put("/{id}", h.UpdateCampus)
		c.Delete("/{id}", h.DeleteCampus)
	})
	adminRouter.Route("/departamentos", func(d chi.Router) {
		d.Post("/", h.CreateDepartamento)
		d.Put("/{id}", h.UpdateDepartamento)
		d.Delete("/{id}", h.DeleteDepartamento)
	})
	adminRouter.Route("/eventos", func(e chi.Router) {
		e.Get("/", h.AdminListEventos)
		e.Post("/", h.CreateEvento)
		e.Put("/{id}", h.UpdateEvento)
		e.Delete("/{id}", h.DeleteEvento)
		e.Post("/{id}/encerrar", h.EncerrarEvento)
		e.Get("/{id}/inscritos", h.ListInscritos)
		e.Get("/{id}/inscritos.csv", h.ExportInscritos)
	})
	adminRouter.Delete("/inscricoes/{id}", h.AdminCancelarInscricao)
	adminRouter.Route("/usuarios", func(u chi.Router) {
		u.Use(httpmiddleware.RequireRoles(model.RoleAdminGeral, model.RoleAdminCampus))
		u.Get("/", h.ListUsuarios)
		u.Patch("/{id}/roles", h.UpdateRoles)
		u.Post("/{id}/campus/{campusId}", h.AddCampusAdmin)
		u.Delete("/{id}/campus/{campusId}", h.RemoveCampusAdmin)
		u.Post("/{id}/departamentos", h.AddDepartamentoAdmin)
		u.Delete("/{id}/departamentos/{departamentoId}", h.RemoveDepartamentoAdmin)
	})
	adminRouter.Route("/monitor", func(m chi.Router) {
		m.Use(httpmiddleware.RequireRoles(model.RoleAdminGeral))
		m.Get("/", h.MonitorSummary)
		m.Post("/run", h.MonitorRun)
	})

	r.Mount("/admin", adminRouter)

	return r, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida Redis, quando configurado, e a última verificação da API de eventos.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var redisErr error
	if h.redis != nil {
		redisErr = h.redis.Ping(ctx).Err()
	}
	apiUp := h.monitor == nil || h.monitor.Ready()

	if redisErr != nil || !apiUp {
		details := map[string]any{"redis": errorString(redisErr), "api": apiUp}
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", details)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// client devolve o cliente da API com o token da sessão, quando houver.
func (h *Handler) client(r *http.Request) *api.Client {
	sess := httpmiddleware.GetSession(r.Context())
	if !sess.LoggedIn() {
		return h.api
	}
	return h.api.WithToken(sess.Token)
}

func (h *Handler) directory(sess *session.Session) scope.Directory {
	return h.api.WithToken(sess.Token)
}

func currentScope(r *http.Request) *scope.Scope {
	if s := httpmiddleware.GetScope(r.Context()); s != nil {
		return s
	}
	return &scope.Scope{Nivel: scope.NivelUsuario, ReadOnly: true}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("identificador inválido")
	}
	return id, nil
}
