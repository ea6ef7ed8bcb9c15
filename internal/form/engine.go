package form

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ifg/eventos-portal/internal/model"
)

// Field é um campo adicional pronto para renderização.
type Field struct {
	ID          int64           `json:"id"`
	Nome        string          `json:"nome"`
	Tipo        model.TipoCampo `json:"tipo"`
	Descricao   string          `json:"descricao,omitempty"`
	Obrigatorio bool            `json:"obrigatorio"`
	Opcoes      []string        `json:"opcoes,omitempty"`
}

// Form é o formulário de inscrição de um evento.
type Form struct {
	Fields []Field `json:"campos"`
	total  int
}

// Answers guarda a resposta de cada campo pelo id.
type Answers map[int64]string

// Registrar cria inscrições na API.
type Registrar interface {
	InscreverSimples(ctx context.Context, eventoID int64) (*model.Inscricao, error)
	InscreverCompleto(ctx context.Context, req model.InscricaoCompletaRequest) (*model.Inscricao, error)
}

// Build monta o formulário na ordem recebida, ignorando tipos desconhecidos.
func Build(campos []model.CampoAdicional) *Form {
	f := &Form{total: len(campos), Fields: make([]Field, 0, len(campos))}
	for _, c := range campos {
		if !c.Tipo.Valido() {
			continue
		}
		field := Field{
			ID:          c.ID,
			Nome:        c.Nome,
			Tipo:        c.Tipo,
			Descricao:   c.Descricao,
			Obrigatorio: c.Obrigatorio,
		}
		if c.Tipo == model.TipoSelecao {
			field.Opcoes = ParseOpcoes(c.Opcoes)
		}
		f.Fields = append(f.Fields, field)
	}
	return f
}

// ParseOpcoes separa a lista de opções por vírgula.
func ParseOpcoes(raw string) []string {
	var out []string
	for _, opt := range strings.Split(raw, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// Simples indica que o evento não define campos e usa a inscrição direta.
func (f *Form) Simples() bool {
	return f.total == 0
}

// FieldErrors mapeia id do campo para a mensagem de erro.
type FieldErrors map[int64]string

func (e FieldErrors) Error() string {
	ids := make([]int64, 0, len(e))
	for id := range e {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	msgs := make([]string, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, e[id])
	}
	return strings.Join(msgs, "; ")
}

// Validate exige valor em campos obrigatórios de texto e seleção.
// Checkbox desmarcado conta como resposta.
func (f *Form) Validate(a Answers) FieldErrors {
	errs := FieldErrors{}
	for _, field := range f.Fields {
		if !field.Obrigatorio || field.Tipo == model.TipoCheckbox {
			continue
		}
		if strings.TrimSpace(a[field.ID]) == "" {
			errs[field.ID] = fmt.Sprintf("O campo %s é obrigatório", field.Nome)
		}
	}
	return errs
}

// Values empacota as respostas na ordem dos campos.
func (f *Form) Values(a Answers) []model.CampoValor {
	out := make([]model.CampoValor, 0, len(f.Fields))
	for _, field := range f.Fields {
		valor := a[field.ID]
		if field.Tipo == model.TipoCheckbox {
			valor = strconv.FormatBool(Marcado(valor))
		}
		out = append(out, model.CampoValor{CampoID: field.ID, Valor: valor})
	}
	return out
}

// Marcado interpreta o valor enviado por um checkbox.
func Marcado(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "sim", "s":
		return true
	}
	return false
}

// Submit faz exatamente uma chamada de inscrição ou devolve erros de validação.
func (f *Form) Submit(ctx context.Context, eventoID int64, a Answers, reg Registrar) (*model.Inscricao, error) {
	if f.Simples() {
		return reg.InscreverSimples(ctx, eventoID)
	}
	if errs := f.Validate(a); len(errs) > 0 {
		return nil, errs
	}
	return reg.InscreverCompleto(ctx, model.InscricaoCompletaRequest{
		EventoID:      eventoID,
		CamposValores: f.Values(a),
	})
}
