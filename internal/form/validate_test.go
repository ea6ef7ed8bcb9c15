package form

import (
	"errors"
	"testing"
	"time"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/model"
)

func intPtr(i int) *int { return &i }

func TestValidateEvento(t *testing.T) {
	v := NewValidator()
	inicio := time.Date(2025, 5, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		req  model.EventoRequest
		want map[string]string
	}{
		{
			name: "vazio",
			req:  model.EventoRequest{Titulo: "  "},
			want: map[string]string{
				"titulo":         "Título é obrigatório",
				"local":          "Local é obrigatório",
				"campusId":       "Campus é obrigatório",
				"departamentoId": "Departamento é obrigatório",
			},
		},
		{
			name: "datas e vagas",
			req: model.EventoRequest{
				Titulo: "Semana", Local: "Auditório", CampusID: 1, DepartamentoID: 2,
				DataInicio: model.NovaDataHora(inicio), DataFim: model.NovaDataHora(inicio.Add(-time.Hour)),
				Vagas: intPtr(0),
			},
			want: map[string]string{
				"dataFim": MsgDataFim,
				"vagas":   "O número de vagas deve ser maior que zero",
			},
		},
		{
			name: "campo de selecao sem opcoes",
			req: model.EventoRequest{
				Titulo: "Semana", Local: "Auditório", CampusID: 1, DepartamentoID: 2,
				CamposAdicionais: []model.CampoAdicional{{Nome: "Curso", Tipo: model.TipoSelecao}},
			},
			want: map[string]string{"camposAdicionais[0].opcoes": MsgOpcoesCampo},
		},
		{
			name: "valido",
			req: model.EventoRequest{
				Titulo: "Semana", Local: "Auditório", CampusID: 1, DepartamentoID: 2,
				DataInicio: model.NovaDataHora(inicio), DataFim: model.NovaDataHora(inicio),
				Vagas: intPtr(30),
			},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateEvento(&tc.req)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Campos) != len(tc.want) {
				t.Fatalf("expected %v got %v", tc.want, verr.Campos)
			}
			for k, msg := range tc.want {
				if verr.Campos[k] != msg {
					t.Fatalf("%s: expected %q got %q", k, msg, verr.Campos[k])
				}
			}
		})
	}
}

func TestValidateRegistro(t *testing.T) {
	v := NewValidator()

	err := v.ValidateRegistro(&api.Registro{NomeCompleto: "Ana", Username: "ana", Password: "123"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Campos["username"] != MsgEmail || verr.Campos["password"] != MsgSenhaCurta {
		t.Fatalf("unexpected messages %v", verr.Campos)
	}

	if err := v.ValidateRegistro(&api.Registro{NomeCompleto: "Ana", Username: " ana@ifg.edu.br ", Password: "123456"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestValidateDepartamentoAndCampus(t *testing.T) {
	v := NewValidator()
	err := v.ValidateDepartamento(&api.DepartamentoRequest{Nome: " "})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Campos["campusId"] != MsgCampusDepto {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := v.ValidateNomeCampus("   "); err == nil {
		t.Fatalf("expected error for blank campus name")
	}
	if nome, err := v.ValidateNomeCampus(" Central "); err != nil || nome != "Central" {
		t.Fatalf("unexpected result %q %v", nome, err)
	}
}
