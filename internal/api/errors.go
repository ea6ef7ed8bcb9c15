package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrIndisponivel marca falhas de transporte ou respostas ilegíveis da API.
var ErrIndisponivel = errors.New("api: indisponível")

// Error representa uma falha reportada pelo servidor.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status int, body []byte) *Error {
	msg := strings.TrimSpace(string(body))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}
	return &Error{Status: status, Message: msg}
}

// StatusOf devolve o status HTTP de um erro da API ou zero.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized indica token ausente, expirado ou recusado.
func IsUnauthorized(err error) bool {
	status := StatusOf(err)
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// IsNotFound indica recurso inexistente.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

const (
	marcadorChaveEstrangeira = "viola restrição de chave estrangeira"
	marcadorUserCampus       = "user_campus"

	MsgCampusEmUso = "Este campus não pode ser removido porque está associado a usuários no sistema. Remova primeiro as associações de usuários com este campus."
	MsgItemEmUso   = "Este item não pode ser removido porque está sendo usado em outras partes do sistema."
)

// FriendlyDeleteMessage traduz violações de chave estrangeira vindas de exclusões.
// A detecção depende do texto do banco e quebra se a mensagem mudar.
func FriendlyDeleteMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var apiErr *Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}

	if strings.Contains(msg, marcadorChaveEstrangeira) {
		if strings.Contains(msg, marcadorUserCampus) {
			return MsgCampusEmUso
		}
		return MsgItemEmUso
	}
	return "Erro ao executar a operação: " + msg
}
