package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ifg/eventos-portal/internal/catalog"
	"github.com/ifg/eventos-portal/internal/export"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
)

const (
	msgConfirmarExclusaoEvento  = "Tem certeza que deseja excluir este evento? Esta ação não pode ser desfeita."
	msgConfirmarEncerramento    = "Tem certeza que deseja encerrar este evento? Esta ação irá definir o status como ENCERRADO."
	msgConfirmarCancelamentoAdm = "Tem certeza que deseja cancelar a inscrição deste participante?"
)

// AdminListEventos lista os eventos gerenciados com filtro de status e busca.
func (h *Handler) AdminListEventos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filtro := catalog.ParseFiltro(r.URL.Query().Get("status"))

	eventos, err := h.client(r).ListEventosGerenciados(ctx)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}
	lista := catalog.AdminFilter(eventos, filtro, r.URL.Query().Get("q"), h.now())
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  filtro,
		"total":   len(eventos),
		"eventos": h.views(lista, nil, false),
	})
}

func (h *Handler) decodeEvento(w http.ResponseWriter, r *http.Request, c *notify.Collector) (*model.EventoRequest, bool) {
	var req model.EventoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return nil, false
	}
	if err := h.validator.ValidateEvento(&req); err != nil {
		fail(r.Context(), w, c, err)
		return nil, false
	}
	return &req, true
}

// eventoGerenciado lê o id do caminho e confere o escopo sobre o campus e o departamento atuais do evento.
func (h *Handler) eventoGerenciado(w http.ResponseWriter, r *http.Request, c *notify.Collector) (int64, bool) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return 0, false
	}
	evt, err := h.client(r).GetEvento(ctx, id)
	if err != nil {
		fail(ctx, w, c, err)
		return 0, false
	}
	if err := currentScope(r).CheckEditarEvento(evt.IDCampus(), evt.IDDepartamento()); err != nil {
		fail(ctx, w, c, err)
		return 0, false
	}
	return id, true
}

// CreateEvento cria um evento no departamento informado.
func (h *Handler) CreateEvento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	req, ok := h.decodeEvento(w, r, c)
	if !ok {
		return
	}
	if err := currentScope(r).CheckCriarEvento(req.CampusID, req.DepartamentoID); err != nil {
		fail(ctx, w, c, err)
		return
	}

	evt, err := h.client(r).CreateEvento(ctx, *req)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao criar evento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.catalog.Invalidate(ctx)
	h.notifier(c).Notify(ctx, notify.Success, fmt.Sprintf("Evento %q criado com sucesso!", evt.Titulo))
	respond(w, http.StatusCreated, evt, c)
}

// UpdateEvento substitui os dados de um evento.
func (h *Handler) UpdateEvento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.eventoGerenciado(w, r, c)
	if !ok {
		return
	}
	req, ok := h.decodeEvento(w, r, c)
	if !ok {
		return
	}
	// o destino também precisa estar no escopo
	if err := currentScope(r).CheckEditarEvento(req.CampusID, req.DepartamentoID); err != nil {
		fail(ctx, w, c, err)
		return
	}

	evt, err := h.client(r).UpdateEvento(ctx, id, *req)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao atualizar evento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.catalog.Invalidate(ctx)
	h.notifier(c).Notify(ctx, notify.Success, "Evento atualizado com sucesso!")
	respond(w, http.StatusOK, evt, c)
}

// DeleteEvento exclui um evento após confirmação.
func (h *Handler) DeleteEvento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.eventoGerenciado(w, r, c)
	if !ok {
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, msgConfirmarExclusaoEvento) {
		return
	}
	if err := h.client(r).DeleteEvento(ctx, id); err != nil {
		failDelete(ctx, w, c, err)
		return
	}
	h.catalog.Invalidate(ctx)
	n.Notify(ctx, notify.Success, "Evento excluído com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"removido": id}, c)
}

// EncerrarEvento define o status do evento como ENCERRADO.
func (h *Handler) EncerrarEvento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.eventoGerenciado(w, r, c)
	if !ok {
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, msgConfirmarEncerramento) {
		return
	}
	if err := h.client(r).EncerrarEvento(ctx, id); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao encerrar evento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.catalog.Invalidate(ctx)
	n.Notify(ctx, notify.Success, "Evento encerrado com sucesso!")
	respond(w, http.StatusOK, map[string]any{"id": id, "status": model.StatusEncerrado}, c)
}

// ListInscritos lista os inscritos do evento com filtro e as colunas extras.
func (h *Handler) ListInscritos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.eventoGerenciado(w, r, nil)
	if !ok {
		return
	}

	todos, err := h.client(r).ListInscritos(ctx, id)
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}
	status := export.ParseFiltroStatus(r.URL.Query().Get("status"))
	filtrados := export.Filter(todos, status, r.URL.Query().Get("q"))

	WriteJSON(w, http.StatusOK, map[string]any{
		"eventoId":  id,
		"status":    status,
		"total":     len(todos),
		"colunas":   export.Colunas(todos),
		"inscritos": filtrados,
	})
}

// ExportInscritos devolve o CSV dos inscritos filtrados.
func (h *Handler) ExportInscritos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.eventoGerenciado(w, r, c)
	if !ok {
		return
	}

	todos, err := h.client(r).ListInscritos(ctx, id)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	filtrados := export.Filter(todos, export.ParseFiltroStatus(r.URL.Query().Get("status")), r.URL.Query().Get("q"))

	var buf bytes.Buffer
	if err := export.Write(&buf, todos, filtrados); err != nil {
		c.Notify(ctx, notify.Error, err.Error())
		fail(ctx, w, c, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(id)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// AdminCancelarInscricao cancela a inscrição de um participante.
func (h *Handler) AdminCancelarInscricao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, msgConfirmarCancelamentoAdm) {
		return
	}
	if err := h.client(r).CancelarInscricao(ctx, id); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao cancelar inscrição: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	n.Notify(ctx, notify.Success, catalog.MsgInscricaoCancelada)
	respond(w, http.StatusOK, map[string]int64{"cancelada": id}, c)
}
