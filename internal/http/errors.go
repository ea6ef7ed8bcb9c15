package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/catalog"
	"github.com/ifg/eventos-portal/internal/export"
	"github.com/ifg/eventos-portal/internal/form"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
)

// confirmado indica que o cliente já aceitou as confirmações desta requisição.
func confirmado(r *http.Request) bool {
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Confirmar")), "true") {
		return true
	}
	return strings.EqualFold(r.URL.Query().Get("confirmar"), "true")
}

// collector cria o coletor de avisos da requisição.
func collector(r *http.Request) *notify.Collector {
	return notify.NewCollector(confirmado(r))
}

// notifier combina o coletor da requisição com os destinos extras configurados.
func (h *Handler) notifier(c *notify.Collector) notify.Notifier {
	if len(h.extras) == 0 {
		return c
	}
	return notify.Fanout{Primary: c, Extras: h.extras}
}

func respond(w http.ResponseWriter, status int, data any, c *notify.Collector) {
	writeJSON(w, status, data, c.Avisos())
}

// confirm pede confirmação; sem aceite responde 409 com o texto a confirmar.
func confirm(ctx context.Context, w http.ResponseWriter, n notify.Notifier, c *notify.Collector, msg string) bool {
	if n.Confirm(ctx, msg) {
		return true
	}
	writeError(w, http.StatusConflict, "CONFIRMATION_REQUIRED", msg, map[string]string{"confirmar": msg}, c.Avisos())
	return false
}

// fail converte erros de domínio e da API para o envelope de erro.
func fail(ctx context.Context, w http.ResponseWriter, c *notify.Collector, err error) {
	var avisos []notify.Aviso
	if c != nil {
		avisos = c.Avisos()
	}

	var verr *form.ValidationError
	var ferrs form.FieldErrors
	var perr *scope.PermissionError
	var aerr *api.Error

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "VALIDATION", verr.Error(), verr.Campos, avisos)
	case errors.As(err, &ferrs):
		writeError(w, http.StatusBadRequest, "VALIDATION", ferrs.Error(), ferrs, avisos)
	case errors.As(err, &perr):
		writeError(w, http.StatusForbidden, "FORBIDDEN", perr.Msg, nil, avisos)
	case errors.Is(err, catalog.ErrJaInscrito):
		writeError(w, http.StatusConflict, "CONFLICT", err.Error(), nil, avisos)
	case errors.Is(err, export.ErrSemDados):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil, avisos)
	case errors.As(err, &aerr):
		switch {
		case aerr.Status == http.StatusUnauthorized:
			writeError(w, http.StatusUnauthorized, "AUTH", aerr.Message, nil, avisos)
		case aerr.Status == http.StatusForbidden:
			writeError(w, http.StatusForbidden, "FORBIDDEN", aerr.Message, nil, avisos)
		case aerr.Status == http.StatusNotFound:
			writeError(w, http.StatusNotFound, "NOT_FOUND", aerr.Message, nil, avisos)
		case aerr.Status < http.StatusInternalServerError:
			writeError(w, http.StatusBadRequest, "VALIDATION", aerr.Message, nil, avisos)
		default:
			logFailure(ctx, err)
			writeError(w, http.StatusBadGateway, "UPSTREAM", aerr.Message, nil, avisos)
		}
	case errors.Is(err, api.ErrIndisponivel):
		logFailure(ctx, err)
		writeError(w, http.StatusBadGateway, "UPSTREAM", "API de eventos indisponível", nil, avisos)
	default:
		logFailure(ctx, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil, avisos)
	}
}

// failDelete aplica a mensagem amigável de exclusões bloqueadas por referência.
func failDelete(ctx context.Context, w http.ResponseWriter, c *notify.Collector, err error) {
	var aerr *api.Error
	if !errors.As(err, &aerr) || aerr.Status == http.StatusUnauthorized || aerr.Status == http.StatusForbidden || aerr.Status == http.StatusNotFound {
		fail(ctx, w, c, err)
		return
	}
	msg := api.FriendlyDeleteMessage(err)
	c.Notify(ctx, notify.Error, msg)
	writeError(w, http.StatusConflict, "CONFLICT", msg, nil, c.Avisos())
}

func logFailure(ctx context.Context, err error) {
	log.Error().Err(err).Str("request_id", chimiddleware.GetReqID(ctx)).Msg("portal: falha na requisição")
}
