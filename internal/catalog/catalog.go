package catalog

import (
	"strings"
	"time"

	"github.com/ifg/eventos-portal/internal/model"
)

const (
	MsgInscricaoRealizada    = "Inscrição realizada com sucesso!"
	MsgInscricaoCancelada    = "Inscrição cancelada com sucesso!"
	MsgConfirmarCancelamento = "Tem certeza que deseja cancelar sua inscrição neste evento?"
	MsgFalhaEventos          = "Não foi possível carregar os eventos."
)

// IsEncerrado usa o status explícito quando presente; sem status, compara dataFim com now.
func IsEncerrado(evt model.Evento, now time.Time) bool {
	if evt.Status.Presente() {
		return evt.Status == model.StatusEncerrado
	}
	return evt.DataFim != nil && !evt.DataFim.After(now)
}

// Ativo exige status não encerrado e término no futuro, mesmo com status ATIVO.
func Ativo(evt model.Evento, now time.Time) bool {
	if IsEncerrado(evt, now) {
		return false
	}
	return evt.DataFim == nil || evt.DataFim.After(now)
}

// Ativos mantém apenas os eventos abertos no catálogo público.
func Ativos(eventos []model.Evento, now time.Time) []model.Evento {
	out := make([]model.Evento, 0, len(eventos))
	for _, evt := range eventos {
		if Ativo(evt, now) {
			out = append(out, evt)
		}
	}
	return out
}

// Terms separa a busca em termos minúsculos.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Matches exige que todos os termos apareçam em algum dos campos textuais.
func Matches(evt model.Evento, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	fields := []string{
		strings.ToLower(evt.Titulo),
		strings.ToLower(evt.Descricao),
		strings.ToLower(evt.Local),
		strings.ToLower(evt.NomeCampus()),
		strings.ToLower(evt.NomeDepartamento()),
	}
	for _, term := range terms {
		found := false
		for _, f := range fields {
			if strings.Contains(f, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Search filtra eventos pela busca combinada.
func Search(eventos []model.Evento, query string) []model.Evento {
	terms := Terms(query)
	out := make([]model.Evento, 0, len(eventos))
	for _, evt := range eventos {
		if Matches(evt, terms) {
			out = append(out, evt)
		}
	}
	return out
}

// Disponiveis é a aba pública: eventos ativos que casam com a busca.
func Disponiveis(eventos []model.Evento, query string, now time.Time) []model.Evento {
	return Search(Ativos(eventos, now), query)
}

// Minhas devolve os eventos com inscrição ATIVA, sem repetição.
func Minhas(eventos []model.Evento, inscricoes []model.Inscricao, query string) []model.Evento {
	byID := make(map[int64]model.Evento, len(eventos))
	for _, evt := range eventos {
		byID[evt.ID] = evt
	}

	terms := Terms(query)
	seen := make(map[int64]struct{})
	out := make([]model.Evento, 0)
	for _, insc := range inscricoes {
		if !insc.Ativa() {
			continue
		}
		id := insc.IDEvento()
		if _, dup := seen[id]; dup || id == 0 {
			continue
		}

		evt, ok := byID[id]
		if !ok {
			if insc.Evento == nil {
				continue
			}
			evt = *insc.Evento
		}
		seen[id] = struct{}{}
		if Matches(evt, terms) {
			out = append(out, evt)
		}
	}
	return out
}

// Aba identifica as abas do catálogo autenticado.
type Aba string

const (
	AbaDisponiveis Aba = "disponiveis"
	AbaMinhas      Aba = "minhas"
)

// ParseAba aceita o nome da aba e usa disponiveis por padrão.
func ParseAba(raw string) Aba {
	if Aba(strings.ToLower(strings.TrimSpace(raw))) == AbaMinhas {
		return AbaMinhas
	}
	return AbaDisponiveis
}

// Abas é a partição do catálogo para um usuário autenticado.
type Abas struct {
	Disponiveis []model.Evento `json:"disponiveis"`
	Minhas      []model.Evento `json:"minhas"`
}

// Partition monta as duas abas a partir do catálogo e das inscrições.
func Partition(eventos []model.Evento, inscricoes []model.Inscricao, query string, now time.Time) Abas {
	return Abas{
		Disponiveis: Disponiveis(eventos, query, now),
		Minhas:      Minhas(eventos, inscricoes, query),
	}
}

// FiltroStatus é o filtro da listagem administrativa.
type FiltroStatus string

const (
	FiltroTodos      FiltroStatus = "todos"
	FiltroAtivos     FiltroStatus = "ativos"
	FiltroEncerrados FiltroStatus = "encerrados"
)

// ParseFiltro aceita o nome do filtro e usa todos por padrão.
func ParseFiltro(raw string) FiltroStatus {
	switch f := FiltroStatus(strings.ToLower(strings.TrimSpace(raw))); f {
	case FiltroAtivos, FiltroEncerrados:
		return f
	}
	return FiltroTodos
}

// AdminFilter aplica o filtro de status e a busca na listagem administrativa.
func AdminFilter(eventos []model.Evento, filtro FiltroStatus, query string, now time.Time) []model.Evento {
	terms := Terms(query)
	out := make([]model.Evento, 0, len(eventos))
	for _, evt := range eventos {
		encerrado := IsEncerrado(evt, now)
		switch filtro {
		case FiltroAtivos:
			if encerrado {
				continue
			}
		case FiltroEncerrados:
			if !encerrado {
				continue
			}
		}
		if Matches(evt, terms) {
			out = append(out, evt)
		}
	}
	return out
}
