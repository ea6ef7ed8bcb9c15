package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role é um papel atribuído ao usuário.
type Role string

const (
	RoleUser              Role = "USER"
	RoleAdminGeral        Role = "ADMIN_GERAL"
	RoleAdminCampus       Role = "ADMIN_CAMPUS"
	RoleAdminDepartamento Role = "ADMIN_DEPARTAMENTO"
)

// ParseRole normaliza nomes recebidos, inclusive com prefixo ROLE_.
func ParseRole(raw string) Role {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "ROLE_")
	return Role(name)
}

// UnmarshalJSON aceita "ADMIN_GERAL" ou {"name":"ADMIN_GERAL"}.
func (r *Role) UnmarshalJSON(data []byte) error {
	raw, err := scalarOrName(data)
	if err != nil {
		return err
	}
	*r = ParseRole(raw)
	return nil
}

// EventoStatus é o ciclo de vida do evento.
type EventoStatus string

const (
	StatusDesconhecido EventoStatus = ""
	StatusAtivo        EventoStatus = "ATIVO"
	StatusEncerrado    EventoStatus = "ENCERRADO"
)

// ParseEventoStatus normaliza a forma textual do status.
func ParseEventoStatus(raw string) EventoStatus {
	return EventoStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// Presente informa se o servidor enviou um status explícito.
func (s EventoStatus) Presente() bool {
	return s != StatusDesconhecido
}

// UnmarshalJSON normaliza string, objeto com "name" ou qualquer escalar.
func (s *EventoStatus) UnmarshalJSON(data []byte) error {
	raw, err := scalarOrName(data)
	if err != nil {
		return err
	}
	*s = ParseEventoStatus(raw)
	return nil
}

func (s EventoStatus) MarshalJSON() ([]byte, error) {
	if s == StatusDesconhecido {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// scalarOrName extrai a forma textual de um valor JSON.
func scalarOrName(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var obj struct {
			Name json.RawMessage `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return "", err
		}
		if len(obj.Name) == 0 {
			return "", nil
		}
		return scalarOrName(obj.Name)
	default:
		return string(data), nil
	}
}
