package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/ifg/eventos-portal/internal/model"
)

func inscritos() []model.Inscricao {
	quando := model.NovaDataHora(time.Date(2025, 3, 4, 9, 30, 0, 0, time.Local))
	return []model.Inscricao{
		{
			ID: 1, NomeUsuario: "Ana", Username: "ana@ifg.edu.br", Status: model.InscricaoAtiva, DataInscricao: quando,
			CamposValores: []model.CampoValor{{CampoID: 10, NomeCampo: "Empresa", Valor: "Acme, Ltda"}},
		},
		{
			ID: 2, User: &model.Usuario{NomeCompleto: "Bruno", Username: "bruno@ifg.edu.br"}, Status: model.InscricaoCancelada,
			CamposValores: []model.CampoValor{
				{Campo: &model.CampoAdicional{ID: 11, Nome: "Camiseta"}, Valor: "M"},
				{CampoID: 10, NomeCampo: "Empresa"},
			},
		},
		{ID: 3, Status: model.InscricaoAtiva},
	}
}

func TestFilterStatusIgnoresCase(t *testing.T) {
	lista := []model.Inscricao{
		{ID: 1, Status: model.StatusInscricao("ativa")},
		{ID: 2, Status: model.StatusInscricao("Cancelada")},
	}
	if got := Filter(lista, StatusAtiva, ""); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only registration 1, got %+v", got)
	}
	if got := Filter(lista, StatusCancelada, ""); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only registration 2, got %+v", got)
	}
}

func TestColunasUsesOwnNome(t *testing.T) {
	lista := []model.Inscricao{{
		ID:            1,
		CamposValores: []model.CampoValor{{ID: 20, Rotulo: "Instituição", Valor: "UFG"}},
	}}
	cols := Colunas(lista)
	if len(cols) != 1 || cols[0].CampoID != 20 || cols[0].Nome != "Instituição" {
		t.Fatalf("unexpected columns %+v", cols)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		status FiltroStatus
		query  string
		want   []int64
	}{
		{"todos", StatusTodos, "", []int64{1, 2, 3}},
		{"ativas", StatusAtiva, "", []int64{1, 3}},
		{"canceladas", StatusCancelada, "", []int64{2}},
		{"por nome do usuário embutido", StatusTodos, "bru", []int64{2}},
		{"por e-mail", StatusTodos, "ANA@", []int64{1}},
		{"por status", StatusTodos, "cancel", []int64{2}},
		{"status e busca", StatusAtiva, "bruno", []int64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(inscritos(), tc.status, tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v got %d items", tc.want, len(got))
			}
			for i := range got {
				if got[i].ID != tc.want[i] {
					t.Fatalf("expected %v got id %d at %d", tc.want, got[i].ID, i)
				}
			}
		})
	}
}

func TestParseFiltroStatus(t *testing.T) {
	if ParseFiltroStatus(" ATIVA ") != StatusAtiva || ParseFiltroStatus("x") != StatusTodos {
		t.Fatalf("unexpected parse")
	}
}

func TestWriteUsesColumnsFromAllRegistrants(t *testing.T) {
	todos := inscritos()
	var buf bytes.Buffer
	if err := Write(&buf, todos, Filter(todos, StatusAtiva, "")); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := [][]string{
		{"Nome", "Email", "Data de Inscrição", "Status", "Empresa", "Camiseta"},
		{"Ana", "ana@ifg.edu.br", "04/03/2025 09:30:00", "ATIVA", "Acme, Ltda", "-"},
		{"N/D", "N/D", "N/D", "ATIVA", "-", "-"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d rows got %d: %v", len(want), len(records), records)
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Fatalf("row %d col %d: expected %q got %q", i, j, want[i][j], records[i][j])
			}
		}
	}
}

func TestWriteQuotesEmbeddedDelimiters(t *testing.T) {
	var buf bytes.Buffer
	todos := inscritos()[:1]
	if err := Write(&buf, todos, todos); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"Acme, Ltda"`)) {
		t.Fatalf("expected quoted value, got %s", buf.String())
	}
}

func TestWriteWithoutRegistrants(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, inscritos(), nil)
	if !errors.Is(err, ErrSemDados) || err.Error() != "Não há dados para exportar." {
		t.Fatalf("expected ErrSemDados got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing must be written")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(42); got != "inscritos_evento_42.csv" {
		t.Fatalf("unexpected filename %s", got)
	}
}
