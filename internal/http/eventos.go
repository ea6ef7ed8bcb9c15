package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ifg/eventos-portal/internal/catalog"
	"github.com/ifg/eventos-portal/internal/form"
	httpmiddleware "github.com/ifg/eventos-portal/internal/http/middleware"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
)

// eventoView acrescenta o estado derivado ao evento.
type eventoView struct {
	model.Evento
	Encerrado bool           `json:"encerrado"`
	Estado    catalog.Estado `json:"estado,omitempty"`
}

func (h *Handler) views(eventos []model.Evento, inscricoes []model.Inscricao, logado bool) []eventoView {
	now := h.now()
	out := make([]eventoView, 0, len(eventos))
	for _, evt := range eventos {
		v := eventoView{Evento: evt, Encerrado: catalog.IsEncerrado(evt, now)}
		if logado {
			v.Estado = catalog.EstadoDe(inscricoes, evt.ID)
		}
		out = append(out, v)
	}
	return out
}

// ListEventos devolve a aba pedida do catálogo, filtrada pela busca.
// Anônimos só enxergam a aba de disponíveis.
func (h *Handler) ListEventos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	query := r.URL.Query().Get("q")
	aba := catalog.ParseAba(r.URL.Query().Get("aba"))

	eventos, err := h.catalog.Eventos(ctx, h.api)
	if err != nil {
		c.Notify(ctx, notify.Error, catalog.MsgFalhaEventos)
		fail(ctx, w, c, err)
		return
	}

	sess := httpmiddleware.GetSession(ctx)
	if !sess.LoggedIn() {
		respond(w, http.StatusOK, map[string]any{
			"aba":     catalog.AbaDisponiveis,
			"eventos": h.views(catalog.Disponiveis(eventos, query, h.now()), nil, false),
		}, c)
		return
	}

	inscricoes, err := h.client(r).ListMinhasInscricoes(ctx)
	if err != nil {
		c.Notify(ctx, notify.Error, "Não foi possível carregar suas inscrições.")
	}

	abas := catalog.Partition(eventos, inscricoes, query, h.now())
	lista := abas.Disponiveis
	if aba == catalog.AbaMinhas {
		lista = abas.Minhas
	}
	respond(w, http.StatusOK, map[string]any{
		"aba":     aba,
		"eventos": h.views(lista, inscricoes, true),
		"totais": map[catalog.Aba]int{
			catalog.AbaDisponiveis: len(abas.Disponiveis),
			catalog.AbaMinhas:      len(abas.Minhas),
		},
	}, c)
}

// GetEvento devolve um evento com o estado da inscrição do usuário.
func (h *Handler) GetEvento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	evt, err := h.client(r).GetEvento(ctx, id)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}

	var inscricoes []model.Inscricao
	logado := httpmiddleware.GetSession(ctx).LoggedIn()
	if logado {
		if inscricoes, err = h.client(r).ListMinhasInscricoes(ctx); err != nil {
			fail(ctx, w, nil, err)
			return
		}
	}
	WriteJSON(w, http.StatusOK, h.views([]model.Evento{*evt}, inscricoes, logado)[0])
}

// SetPendente lembra o evento escolhido antes do login.
func (h *Handler) SetPendente(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	sessID, err := h.sessions.SetPendingEvento(ctx, httpmiddleware.GetSessionID(ctx), id)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}
	h.setSessionCookie(w, sessID)
	WriteJSON(w, http.StatusOK, map[string]int64{"pendingEventoId": id})
}

// Formulario devolve os campos do formulário de inscrição.
func (h *Handler) Formulario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	client := h.client(r)
	campos, err := client.ListCampos(ctx, id)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}
	inscricoes, err := client.ListMinhasInscricoes(ctx)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}

	f := form.Build(campos)
	WriteJSON(w, http.StatusOK, map[string]any{
		"eventoId": id,
		"simples":  f.Simples(),
		"campos":   f.Fields,
		"estado":   catalog.EstadoDe(inscricoes, id),
	})
}

type inscricaoPayload struct {
	Respostas form.Answers `json:"respostas"`
}

// Inscrever recusa duplicidade e envia exatamente uma inscrição.
func (h *Handler) Inscrever(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	var payload inscricaoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	client := h.client(r)
	inscricoes, err := client.ListMinhasInscricoes(ctx)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	if err := catalog.CheckDuplicate(inscricoes, id); err != nil {
		c.Notify(ctx, notify.Info, err.Error())
		fail(ctx, w, c, err)
		return
	}

	campos, err := client.ListCampos(ctx, id)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}

	insc, err := form.Build(campos).Submit(ctx, id, payload.Respostas, client)
	if err != nil {
		var ferrs form.FieldErrors
		if !errors.As(err, &ferrs) {
			c.Notify(ctx, notify.Error, "Erro ao realizar inscrição: "+err.Error())
		}
		fail(ctx, w, c, err)
		return
	}

	c.Notify(ctx, notify.Success, catalog.MsgInscricaoRealizada)
	respond(w, http.StatusCreated, insc, c)
}

// MinhasInscricoes lista as inscrições do usuário.
func (h *Handler) MinhasInscricoes(w http.ResponseWriter, r *http.Request) {
	inscricoes, err := h.client(r).ListMinhasInscricoes(r.Context())
	if err != nil {
		fail(r.Context(), w, nil, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"inscricoes": inscricoes})
}

// CancelarInscricao cancela uma inscrição própria após confirmação.
func (h *Handler) CancelarInscricao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	client := h.client(r)
	inscricoes, err := client.ListMinhasInscricoes(ctx)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	insc, ok := catalog.Propria(inscricoes, id)
	if !ok {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "inscrição não encontrada", nil)
		return
	}
	if _, err := catalog.Transicao(catalog.EstadoDe([]model.Inscricao{insc}, insc.IDEvento()), catalog.AcaoCancelar); err != nil {
		WriteError(w, http.StatusConflict, "CONFLICT", "Esta inscrição já está cancelada.", nil)
		return
	}

	if !confirm(ctx, w, c, c, catalog.MsgConfirmarCancelamento) {
		return
	}
	if err := client.CancelarInscricao(ctx, id); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao cancelar inscrição: "+err.Error())
		fail(ctx, w, c, err)
		return
	}

	c.Notify(ctx, notify.Success, catalog.MsgInscricaoCancelada)
	respond(w, http.StatusOK, map[string]int64{"cancelada": id}, c)
}
