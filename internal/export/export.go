package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ifg/eventos-portal/internal/model"
)

// ErrSemDados bloqueia exportações vazias.
var ErrSemDados = errors.New("Não há dados para exportar.")

const (
	naoDisponivel = "N/D"
	semValor      = "-"
)

// FiltroStatus filtra inscritos por status.
type FiltroStatus string

const (
	StatusTodos     FiltroStatus = "todos"
	StatusAtiva     FiltroStatus = "ativa"
	StatusCancelada FiltroStatus = "cancelada"
)

// ParseFiltroStatus aceita todos, ativa ou cancelada; qualquer outro valor vira todos.
func ParseFiltroStatus(raw string) FiltroStatus {
	switch FiltroStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusAtiva:
		return StatusAtiva
	case StatusCancelada:
		return StatusCancelada
	}
	return StatusTodos
}

// Nome devolve o nome do inscrito ou N/D.
func Nome(insc model.Inscricao) string {
	if insc.NomeUsuario != "" {
		return insc.NomeUsuario
	}
	if insc.User != nil && insc.User.NomeCompleto != "" {
		return insc.User.NomeCompleto
	}
	return naoDisponivel
}

// Email devolve o e-mail do inscrito ou N/D.
func Email(insc model.Inscricao) string {
	if insc.User != nil && insc.User.Username != "" {
		return insc.User.Username
	}
	if insc.Username != "" {
		return insc.Username
	}
	return naoDisponivel
}

// Filter aplica status e busca por nome, e-mail ou status.
func Filter(inscritos []model.Inscricao, status FiltroStatus, query string) []model.Inscricao {
	termo := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Inscricao, 0, len(inscritos))
	for _, insc := range inscritos {
		if status != StatusTodos && !strings.EqualFold(string(insc.Status), string(status)) {
			continue
		}
		if termo != "" &&
			!strings.Contains(strings.ToLower(Nome(insc)), termo) &&
			!strings.Contains(strings.ToLower(Email(insc)), termo) &&
			!strings.Contains(strings.ToLower(string(insc.Status)), termo) {
			continue
		}
		out = append(out, insc)
	}
	return out
}

// Coluna é um campo adicional presente nas respostas.
type Coluna struct {
	CampoID int64  `json:"campoId"`
	Nome    string `json:"nomeCampo"`
}

// Colunas reúne os campos respondidos por todos os inscritos, na ordem em que aparecem.
// Campos sem id ou sem nome são ignorados; o último nome visto prevalece.
func Colunas(inscritos []model.Inscricao) []Coluna {
	index := map[int64]int{}
	var cols []Coluna
	for _, insc := range inscritos {
		for _, cv := range insc.CamposValores {
			id, nome := cv.IDCampo(), cv.Nome()
			if id == 0 || nome == "" {
				continue
			}
			if i, ok := index[id]; ok {
				cols[i].Nome = nome
				continue
			}
			index[id] = len(cols)
			cols = append(cols, Coluna{CampoID: id, Nome: nome})
		}
	}
	return cols
}

// Valor devolve a resposta do inscrito para o campo ou "-".
func Valor(insc model.Inscricao, campoID int64) string {
	for _, cv := range insc.CamposValores {
		if cv.IDCampo() == campoID {
			if cv.Valor == "" {
				return semValor
			}
			return cv.Valor
		}
	}
	return semValor
}

func data(insc model.Inscricao) string {
	if insc.DataInscricao == nil || insc.DataInscricao.IsZero() {
		return naoDisponivel
	}
	return insc.DataInscricao.FormatBR()
}

// Cabecalho monta a primeira linha do arquivo.
func Cabecalho(cols []Coluna) []string {
	header := []string{"Nome", "Email", "Data de Inscrição", "Status"}
	for _, c := range cols {
		header = append(header, c.Nome)
	}
	return header
}

// Linha monta o registro de um inscrito.
func Linha(insc model.Inscricao, cols []Coluna) []string {
	row := []string{Nome(insc), Email(insc), data(insc), string(insc.Status)}
	for _, c := range cols {
		row = append(row, Valor(insc, c.CampoID))
	}
	return row
}

// Write grava o CSV dos inscritos filtrados com as colunas calculadas sobre todos.
func Write(w io.Writer, todos, filtrados []model.Inscricao) error {
	if len(filtrados) == 0 {
		return ErrSemDados
	}
	cols := Colunas(todos)

	cw := csv.NewWriter(w)
	if err := cw.Write(Cabecalho(cols)); err != nil {
		return fmt.Errorf("export: cabeçalho: %w", err)
	}
	for _, insc := range filtrados {
		if err := cw.Write(Linha(insc, cols)); err != nil {
			return fmt.Errorf("export: inscrição %d: %w", insc.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename é o nome sugerido para download.
func Filename(eventoID int64) string {
	return fmt.Sprintf("inscritos_evento_%d.csv", eventoID)
}
