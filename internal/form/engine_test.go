package form

import (
	"context"
	"errors"
	"testing"

	"github.com/ifg/eventos-portal/internal/model"
)

type stubRegistrar struct {
	simples   []int64
	completos []model.InscricaoCompletaRequest
	err       error
}

func (s *stubRegistrar) InscreverSimples(ctx context.Context, eventoID int64) (*model.Inscricao, error) {
	s.simples = append(s.simples, eventoID)
	if s.err != nil {
		return nil, s.err
	}
	return &model.Inscricao{ID: 1, EventoID: eventoID, Status: model.InscricaoAtiva}, nil
}

func (s *stubRegistrar) InscreverCompleto(ctx context.Context, req model.InscricaoCompletaRequest) (*model.Inscricao, error) {
	s.completos = append(s.completos, req)
	if s.err != nil {
		return nil, s.err
	}
	return &model.Inscricao{ID: 2, EventoID: req.EventoID, Status: model.InscricaoAtiva, CamposValores: req.CamposValores}, nil
}

func TestBuildParsesOptionsAndSkipsUnknownTypes(t *testing.T) {
	f := Build([]model.CampoAdicional{
		{ID: 1, Nome: "Curso", Tipo: model.TipoSelecao, Opcoes: " TADS , Química,, Física "},
		{ID: 2, Nome: "Arquivo", Tipo: "file"},
		{ID: 3, Nome: "Aceito", Tipo: model.TipoCheckbox},
	})
	if len(f.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %+v", f.Fields)
	}
	want := []string{"TADS", "Química", "Física"}
	if len(f.Fields[0].Opcoes) != len(want) {
		t.Fatalf("unexpected options %q", f.Fields[0].Opcoes)
	}
	for i := range want {
		if f.Fields[0].Opcoes[i] != want[i] {
			t.Fatalf("unexpected options %q", f.Fields[0].Opcoes)
		}
	}
	if f.Simples() {
		t.Fatalf("form with fields is not simple")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	f := Build([]model.CampoAdicional{
		{ID: 1, Nome: "Empresa", Tipo: model.TipoTexto, Obrigatorio: true},
		{ID: 2, Nome: "Curso", Tipo: model.TipoSelecao, Obrigatorio: true, Opcoes: "A,B"},
		{ID: 3, Nome: "Aceito", Tipo: model.TipoCheckbox, Obrigatorio: true},
		{ID: 4, Nome: "Apelido", Tipo: model.TipoTexto},
	})

	tests := []struct {
		name    string
		answers Answers
		want    map[int64]string
	}{
		{"vazio", Answers{}, map[int64]string{1: "O campo Empresa é obrigatório", 2: "O campo Curso é obrigatório"}},
		{"espacos", Answers{1: "   ", 2: "A"}, map[int64]string{1: "O campo Empresa é obrigatório"}},
		{"completo", Answers{1: "Acme", 2: "B", 3: "false"}, map[int64]string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := f.Validate(tc.answers)
			if len(errs) != len(tc.want) {
				t.Fatalf("expected %v got %v", tc.want, errs)
			}
			for id, msg := range tc.want {
				if errs[id] != msg {
					t.Fatalf("field %d: expected %q got %q", id, msg, errs[id])
				}
			}
		})
	}
}

func TestSubmitBlockedThenSent(t *testing.T) {
	f := Build([]model.CampoAdicional{{ID: 9, Nome: "Empresa", Tipo: model.TipoTexto, Obrigatorio: true}})
	reg := &stubRegistrar{}
	ctx := context.Background()

	insc, err := f.Submit(ctx, 3, Answers{9: ""}, reg)
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) || insc != nil {
		t.Fatalf("expected validation errors, got %v %v", insc, err)
	}
	if fieldErrs[9] != "O campo Empresa é obrigatório" {
		t.Fatalf("unexpected message %q", fieldErrs[9])
	}
	if len(reg.completos)+len(reg.simples) != 0 {
		t.Fatalf("no call may be made while errors exist")
	}

	insc, err = f.Submit(ctx, 3, Answers{9: "Acme"}, reg)
	if err != nil || insc == nil {
		t.Fatalf("expected success, got %v %v", insc, err)
	}
	if len(reg.completos) != 1 || len(reg.simples) != 0 {
		t.Fatalf("expected exactly one complete registration call")
	}
	got := reg.completos[0]
	if got.EventoID != 3 || len(got.CamposValores) != 1 || got.CamposValores[0].CampoID != 9 || got.CamposValores[0].Valor != "Acme" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestSubmitWithoutFieldsUsesSimpleRegistration(t *testing.T) {
	reg := &stubRegistrar{}
	if _, err := Build(nil).Submit(context.Background(), 8, nil, reg); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(reg.simples) != 1 || reg.simples[0] != 8 || len(reg.completos) != 0 {
		t.Fatalf("expected one simple registration, got %+v %+v", reg.simples, reg.completos)
	}
}

func TestSubmitFailureReturnsNoRegistration(t *testing.T) {
	reg := &stubRegistrar{err: errors.New("Você já está inscrito neste evento")}
	f := Build([]model.CampoAdicional{{ID: 1, Nome: "Aceito", Tipo: model.TipoCheckbox}})
	insc, err := f.Submit(context.Background(), 1, Answers{1: "on"}, reg)
	if err == nil || insc != nil {
		t.Fatalf("success and failure are exclusive, got %v %v", insc, err)
	}
	if reg.completos[0].CamposValores[0].Valor != "true" {
		t.Fatalf("checkbox must be sent as true, got %q", reg.completos[0].CamposValores[0].Valor)
	}
}

func TestValuesKeepFieldOrder(t *testing.T) {
	f := Build([]model.CampoAdicional{
		{ID: 30, Nome: "c", Tipo: model.TipoTexto},
		{ID: 10, Nome: "a", Tipo: model.TipoCheckbox},
		{ID: 20, Nome: "b", Tipo: model.TipoSelecao, Opcoes: "x"},
	})
	vals := f.Values(Answers{30: "três", 20: "x"})
	if len(vals) != 3 || vals[0].CampoID != 30 || vals[1].CampoID != 10 || vals[2].CampoID != 20 {
		t.Fatalf("unexpected order %+v", vals)
	}
	if vals[1].Valor != "false" {
		t.Fatalf("unchecked checkbox must be false, got %q", vals[1].Valor)
	}
}
