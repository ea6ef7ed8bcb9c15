package form

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/model"
)

// ValidationError lista erros por nome de campo JSON.
type ValidationError struct {
	Campos map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Campos))
	for k := range e.Campos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Campos[k])
	}
	return strings.Join(msgs, "; ")
}

const (
	MsgDataFim      = "A data de término deve ser posterior à data de início"
	MsgEmail        = "Digite um e-mail válido."
	MsgSenhaCurta   = "A senha deve ter pelo menos 6 caracteres."
	MsgNomeCampo    = "O nome do campo é obrigatório"
	MsgTipoCampo    = "Tipo de campo inválido"
	MsgOpcoesCampo  = "Informe as opções do campo de seleção"
	MsgCredenciais  = "Informe usuário e senha."
	MsgNomeCompleto = "Nome completo é obrigatório"
	MsgCampusDepto  = "Selecione um campus para o departamento"
	MsgNomeCampus   = "Nome do campus é obrigatório"
)

// mensagens sobrescreve a tradução padrão para campo.tag.
var mensagens = map[string]string{
	"titulo.required":         "Título é obrigatório",
	"local.required":          "Local é obrigatório",
	"campusId.required":       "Campus é obrigatório",
	"departamentoId.required": "Departamento é obrigatório",
	"vagas.gt":                "O número de vagas deve ser maior que zero",
	"username.email":          MsgEmail,
	"username.required":       MsgEmail,
	"password.min":            MsgSenhaCurta,
	"password.required":       MsgSenhaCurta,
	"nomeCompleto.required":   MsgNomeCompleto,
	"nome.required":           MsgNomeCampo,
	"tipo.required":           MsgTipoCampo,
	"tipo.oneof":              MsgTipoCampo,
}

// Validator aplica regras declarativas com mensagens em português.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator configura o validator com traduções pt_BR e nomes JSON.
func NewValidator() *Validator {
	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("pt_BR")

	validate := validator.New()
	_ = pt_translations.RegisterDefaultTranslations(validate, translator)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: validate, translator: translator}
}

func (v *Validator) check(s any, errs map[string]string, overrides map[string]string) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		key := fe.Field()
		if _, ok := errs[key]; ok {
			continue
		}
		if msg, ok := overrides[key+"."+fe.Tag()]; ok {
			errs[key] = msg
			continue
		}
		if msg, ok := mensagens[key+"."+fe.Tag()]; ok {
			errs[key] = msg
			continue
		}
		errs[key] = fe.Translate(v.translator)
	}
}

func result(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Campos: errs}
}

// ValidateEvento valida o formulário de evento antes de enviá-lo.
func (v *Validator) ValidateEvento(req *model.EventoRequest) error {
	req.Titulo = strings.TrimSpace(req.Titulo)
	req.Local = strings.TrimSpace(req.Local)

	errs := map[string]string{}
	v.check(req, errs, nil)

	if req.DataInicio != nil && req.DataFim != nil && req.DataFim.Before(req.DataInicio.Time) {
		errs["dataFim"] = MsgDataFim
	}
	for i := range req.CamposAdicionais {
		if err := v.ValidateCampo(&req.CamposAdicionais[i]); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				for k, msg := range verr.Campos {
					errs["camposAdicionais["+strconv.Itoa(i)+"]."+k] = msg
				}
			}
		}
	}
	return result(errs)
}

// ValidateCampo valida a definição de um campo adicional.
func (v *Validator) ValidateCampo(c *model.CampoAdicional) error {
	c.Nome = strings.TrimSpace(c.Nome)
	errs := map[string]string{}
	v.check(c, errs, nil)
	if c.Tipo == model.TipoSelecao && len(ParseOpcoes(c.Opcoes)) == 0 {
		errs["opcoes"] = MsgOpcoesCampo
	}
	return result(errs)
}

// ValidateRegistro valida o cadastro de conta.
func (v *Validator) ValidateRegistro(reg *api.Registro) error {
	reg.NomeCompleto = strings.TrimSpace(reg.NomeCompleto)
	reg.Username = strings.TrimSpace(reg.Username)
	errs := map[string]string{}
	v.check(reg, errs, nil)
	return result(errs)
}

// ValidateCredenciais exige usuário e senha no login.
func (v *Validator) ValidateCredenciais(cred *api.Credenciais) error {
	cred.Username = strings.TrimSpace(cred.Username)
	if cred.Username == "" || cred.Password == "" {
		return &ValidationError{Campos: map[string]string{"username": MsgCredenciais}}
	}
	return nil
}

// ValidateDepartamento valida o corpo de criação e edição de departamentos.
func (v *Validator) ValidateDepartamento(req *api.DepartamentoRequest) error {
	req.Nome = strings.TrimSpace(req.Nome)
	errs := map[string]string{}
	v.check(req, errs, map[string]string{
		"nome.required":     "Nome do departamento é obrigatório",
		"campusId.required": MsgCampusDepto,
	})
	return result(errs)
}

// ValidateNomeCampus exige nome não vazio para campus.
func (v *Validator) ValidateNomeCampus(nome string) (string, error) {
	nome = strings.TrimSpace(nome)
	if err := v.validate.Var(nome, "required"); err != nil {
		return "", &ValidationError{Campos: map[string]string{"nome": MsgNomeCampus}}
	}
	return nome, nil
}
