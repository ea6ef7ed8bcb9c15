package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LayoutServidor é o formato LocalDateTime usado pela API.
const LayoutServidor = "2006-01-02T15:04:05"

// LayoutBR é o formato exibido ao usuário e usado no CSV.
const LayoutBR = "02/01/2006 15:04:05"

var layoutsAceitos = []string{
	"2006-01-02T15:04:05.999999999",
	LayoutServidor,
	"2006-01-02T15:04",
	"2006-01-02",
}

// DataHora é um instante da API. Sem fuso é interpretado no horário local;
// com fuso, o deslocamento é preservado na serialização.
type DataHora struct {
	time.Time
	comFuso bool
}

// NovaDataHora embrulha um time.Time.
func NovaDataHora(t time.Time) *DataHora {
	return &DataHora{Time: t}
}

// ParseDataHora aceita os formatos enviados pela API e por formulários.
func ParseDataHora(raw string) (DataHora, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return DataHora{Time: t, comFuso: true}, nil
	}
	for _, layout := range layoutsAceitos {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return DataHora{Time: t}, nil
		}
	}
	return DataHora{}, fmt.Errorf("data inválida: %q", raw)
}

func (d *DataHora) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	parsed, err := ParseDataHora(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DataHora) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	if d.comFuso {
		return json.Marshal(d.Format(time.RFC3339Nano))
	}
	return json.Marshal(d.Format(LayoutServidor))
}

// FormatBR formata a data no padrão dd/mm/aaaa hh:mm:ss.
func (d *DataHora) FormatBR() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(LayoutBR)
}
