package http

import (
	"encoding/json"
	"net/http"

	"github.com/ifg/eventos-portal/internal/notify"
)

// SuccessEnvelope padroniza respostas com dados.
type SuccessEnvelope struct {
	Data   any            `json:"data"`
	Error  any            `json:"error"`
	Avisos []notify.Aviso `json:"avisos,omitempty"`
}

// ErrorEnvelope padroniza respostas de erro.
type ErrorEnvelope struct {
	Data   any            `json:"data"`
	Error  *ErrorBody     `json:"error"`
	Avisos []notify.Aviso `json:"avisos,omitempty"`
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON escreve envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, nil)
}

// WriteError escreve envelope de erro e mantém formato consistente.
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	writeError(w, status, code, message, details, nil)
}

func writeJSON(w http.ResponseWriter, status int, data any, avisos []notify.Aviso) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Data: data, Error: nil, Avisos: avisos})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any, avisos []notify.Aviso) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Data:   nil,
		Error:  &ErrorBody{Code: code, Message: message, Details: details},
		Avisos: avisos,
	})
}
