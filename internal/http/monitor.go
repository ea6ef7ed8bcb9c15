package http

import (
	"net/http"
)

// MonitorSummary devolve a janela de verificações da API de eventos.
func (h *Handler) MonitorSummary(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "monitoramento desativado", nil)
		return
	}
	WriteJSON(w, http.StatusOK, h.monitor.Health())
}

// MonitorRun executa uma verificação imediata.
func (h *Handler) MonitorRun(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "monitoramento desativado", nil)
		return
	}
	event := h.monitor.RunOnce(r.Context())
	WriteJSON(w, http.StatusOK, map[string]any{
		"check":  event,
		"health": h.monitor.Health(),
	})
}
