package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/ifg/eventos-portal/internal/model"
)

var agora = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func fim(d time.Duration) *model.DataHora {
	return model.NovaDataHora(agora.Add(d))
}

func TestIsEncerrado(t *testing.T) {
	tests := []struct {
		name string
		evt  model.Evento
		want bool
	}{
		{"status encerrado", model.Evento{Status: model.StatusEncerrado, DataFim: fim(24 * time.Hour)}, true},
		{"status ativo com fim passado", model.Evento{Status: model.StatusAtivo, DataFim: fim(-24 * time.Hour)}, false},
		{"sem status, fim ontem", model.Evento{DataFim: fim(-24 * time.Hour)}, true},
		{"sem status, fim amanhã", model.Evento{DataFim: fim(24 * time.Hour)}, false},
		{"sem status, fim agora", model.Evento{DataFim: fim(0)}, true},
		{"sem status e sem fim", model.Evento{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEncerrado(tc.evt, agora); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}

func TestAtivoRequiresFutureEnd(t *testing.T) {
	tests := []struct {
		name string
		evt  model.Evento
		want bool
	}{
		{"ativo com fim amanhã", model.Evento{Status: model.StatusAtivo, DataFim: fim(24 * time.Hour)}, true},
		{"ativo com fim ontem", model.Evento{Status: model.StatusAtivo, DataFim: fim(-24 * time.Hour)}, false},
		{"ativo sem fim", model.Evento{Status: model.StatusAtivo}, true},
		{"encerrado com fim futuro", model.Evento{Status: model.StatusEncerrado, DataFim: fim(24 * time.Hour)}, false},
		{"sem status, fim ontem", model.Evento{DataFim: fim(-24 * time.Hour)}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Ativo(tc.evt, agora); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}

	vencido := []model.Evento{{ID: 9, Titulo: "Congresso", Status: model.StatusAtivo, DataFim: fim(-24 * time.Hour)}}
	if got := Disponiveis(vencido, "", agora); len(got) != 0 {
		t.Fatalf("expired ATIVO event must leave the public catalog, got %v", ids(got))
	}
}

func catalogo() []model.Evento {
	return []model.Evento{
		{ID: 1, Titulo: "Semana de Tecnologia", Local: "Auditório", Campus: &model.Campus{Nome: "Goiânia"}, Departamento: &model.Departamento{Nome: "Informática"}},
		{ID: 2, Titulo: "Feira de Química", Descricao: "Experimentos", Local: "Laboratório", Campus: &model.Campus{Nome: "Anápolis"}},
		{ID: 3, Titulo: "Palestra encerrada", Status: model.StatusEncerrado},
		{ID: 4, Titulo: "Oficina antiga", DataFim: fim(-time.Hour)},
	}
}

func ids(eventos []model.Evento) []int64 {
	out := make([]int64, 0, len(eventos))
	for _, e := range eventos {
		out = append(out, e.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchAllTermsAcrossFields(t *testing.T) {
	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3, 4}},
		{"SEMANA", []int64{1}},
		{"goiânia informática", []int64{1}},
		{"experimentos anápolis", []int64{2}},
		{"semana química", []int64{}},
		{"  auditório  ", []int64{1}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := ids(Search(catalogo(), tc.query)); !equalIDs(got, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	inscricoes := []model.Inscricao{
		{ID: 10, EventoID: 2, Status: model.InscricaoAtiva},
		{ID: 11, EventoID: 2, Status: model.InscricaoAtiva},
		{ID: 12, Evento: &model.Evento{ID: 1}, Status: model.InscricaoCancelada},
		{ID: 13, Evento: &model.Evento{ID: 3, Titulo: "Palestra encerrada"}, Status: model.InscricaoAtiva},
		{ID: 14, Evento: &model.Evento{ID: 99, Titulo: "Fora do catálogo"}, Status: "ativa"},
	}

	abas := Partition(catalogo(), inscricoes, "", agora)
	if !equalIDs(ids(abas.Disponiveis), []int64{1, 2}) {
		t.Fatalf("unexpected disponiveis %v", ids(abas.Disponiveis))
	}
	if !equalIDs(ids(abas.Minhas), []int64{2, 3, 99}) {
		t.Fatalf("unexpected minhas %v", ids(abas.Minhas))
	}

	filtered := Partition(catalogo(), inscricoes, "química", agora)
	if !equalIDs(ids(filtered.Minhas), []int64{2}) {
		t.Fatalf("search must apply to minhas, got %v", ids(filtered.Minhas))
	}
}

func TestAdminFilter(t *testing.T) {
	tests := []struct {
		filtro FiltroStatus
		want   []int64
	}{
		{FiltroTodos, []int64{1, 2, 3, 4}},
		{FiltroAtivos, []int64{1, 2}},
		{FiltroEncerrados, []int64{3, 4}},
	}
	for _, tc := range tests {
		if got := ids(AdminFilter(catalogo(), tc.filtro, "", agora)); !equalIDs(got, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.filtro, tc.want, got)
		}
	}
}

func TestLifecycle(t *testing.T) {
	historico := []model.Inscricao{{ID: 1, EventoID: 5, Status: model.InscricaoCancelada}}

	if got := EstadoDe(nil, 5); got != EstadoNenhum {
		t.Fatalf("expected NONE got %s", got)
	}
	if got := EstadoDe(historico, 5); got != EstadoCancelada {
		t.Fatalf("expected CANCELADA got %s", got)
	}
	if err := CheckDuplicate(historico, 5); err != nil {
		t.Fatalf("re-registration after cancel must be allowed: %v", err)
	}

	historico = append(historico, model.Inscricao{ID: 2, EventoID: 5, Status: model.InscricaoAtiva})
	if got := EstadoDe(historico, 5); got != EstadoAtiva {
		t.Fatalf("expected ATIVA got %s", got)
	}
	if err := CheckDuplicate(historico, 5); !errors.Is(err, ErrJaInscrito) {
		t.Fatalf("expected ErrJaInscrito got %v", err)
	}
	if err := CheckDuplicate(historico, 6); err != nil {
		t.Fatalf("other events are free: %v", err)
	}

	if _, err := Transicao(EstadoNenhum, AcaoCancelar); !errors.Is(err, ErrTransicaoInvalida) {
		t.Fatalf("cannot cancel without registration, got %v", err)
	}
	if next, err := Transicao(EstadoAtiva, AcaoCancelar); err != nil || next != EstadoCancelada {
		t.Fatalf("unexpected transition %s %v", next, err)
	}

	insc, ok := InscricaoAtiva(historico, 5)
	if !ok || insc.ID != 2 {
		t.Fatalf("expected active registration 2, got %+v", insc)
	}
}

func TestParseAbaEFiltro(t *testing.T) {
	if got := ParseAba(" Minhas "); got != AbaMinhas {
		t.Fatalf("expected minhas, got %q", got)
	}
	if got := ParseAba("qualquer"); got != AbaDisponiveis {
		t.Fatalf("expected disponiveis, got %q", got)
	}
	if got := ParseFiltro("ENCERRADOS"); got != FiltroEncerrados {
		t.Fatalf("expected encerrados, got %q", got)
	}
	if got := ParseFiltro(""); got != FiltroTodos {
		t.Fatalf("expected todos, got %q", got)
	}
}
