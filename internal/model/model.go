package model

import (
	"strings"
)

// Campus representa uma unidade da instituição.
type Campus struct {
	ID            int64          `json:"id"`
	Nome          string         `json:"nome"`
	Departamentos []Departamento `json:"departamentos,omitempty"`
}

// Departamento pertence a exatamente um campus.
type Departamento struct {
	ID     int64   `json:"id"`
	Nome   string  `json:"nome"`
	Campus *Campus `json:"campus,omitempty"`
}

// Usuario é o perfil retornado por /api/auth/current-user e /admin/users.
type Usuario struct {
	ID                         int64          `json:"id"`
	Username                   string         `json:"username"`
	NomeCompleto               string         `json:"nomeCompleto"`
	Roles                      []Role         `json:"roles"`
	CampusQueAdministro        []Campus       `json:"campusQueAdministro"`
	DepartamentosQueAdministro []Departamento `json:"departamentosQueAdministro"`
}

// TipoCampo define como um campo adicional é renderizado.
type TipoCampo string

const (
	TipoTexto    TipoCampo = "text"
	TipoSelecao  TipoCampo = "select"
	TipoCheckbox TipoCampo = "checkbox"
)

// Valido informa se o tipo é conhecido pelo formulário.
func (t TipoCampo) Valido() bool {
	switch t {
	case TipoTexto, TipoSelecao, TipoCheckbox:
		return true
	}
	return false
}

// CampoAdicional é uma pergunta extra definida pelo administrador para um evento.
type CampoAdicional struct {
	ID          int64     `json:"id"`
	Nome        string    `json:"nome" validate:"required"`
	Tipo        TipoCampo `json:"tipo" validate:"required,oneof=text select checkbox"`
	Descricao   string    `json:"descricao,omitempty"`
	Obrigatorio bool      `json:"obrigatorio"`
	Opcoes      string    `json:"opcoes,omitempty"`
}

// Evento é uma atividade aberta a inscrições.
type Evento struct {
	ID                  int64            `json:"id"`
	Titulo              string           `json:"titulo"`
	Descricao           string           `json:"descricao"`
	Local               string           `json:"local"`
	DataInicio          *DataHora        `json:"dataInicio,omitempty"`
	DataFim             *DataHora        `json:"dataFim,omitempty"`
	DataLimiteInscricao *DataHora        `json:"dataLimiteInscricao,omitempty"`
	Vagas               *int             `json:"vagas,omitempty"`
	EstudanteIFG        bool             `json:"estudanteIfg"`
	Status              EventoStatus     `json:"status"`
	CamposAdicionais    []CampoAdicional `json:"camposAdicionais"`
	Campus              *Campus          `json:"campus,omitempty"`
	Departamento        *Departamento    `json:"departamento,omitempty"`
}

// NomeCampus devolve o nome do campus ou vazio.
func (e Evento) NomeCampus() string {
	if e.Campus == nil {
		return ""
	}
	return e.Campus.Nome
}

// NomeDepartamento devolve o nome do departamento ou vazio.
func (e Evento) NomeDepartamento() string {
	if e.Departamento == nil {
		return ""
	}
	return e.Departamento.Nome
}

// IDCampus devolve o campus do evento, direto ou pelo departamento.
func (e Evento) IDCampus() int64 {
	switch {
	case e.Campus != nil && e.Campus.ID != 0:
		return e.Campus.ID
	case e.Departamento != nil && e.Departamento.Campus != nil:
		return e.Departamento.Campus.ID
	}
	return 0
}

// IDDepartamento devolve o departamento do evento ou zero.
func (e Evento) IDDepartamento() int64 {
	if e.Departamento == nil {
		return 0
	}
	return e.Departamento.ID
}

// EventoRequest é o corpo de criação e edição de eventos.
type EventoRequest struct {
	Titulo              string           `json:"titulo" validate:"required"`
	Descricao           string           `json:"descricao"`
	Local               string           `json:"local" validate:"required"`
	DataInicio          *DataHora        `json:"dataInicio,omitempty"`
	DataFim             *DataHora        `json:"dataFim,omitempty"`
	DataLimiteInscricao *DataHora        `json:"dataLimiteInscricao,omitempty"`
	CampusID            int64            `json:"campusId" validate:"required"`
	DepartamentoID      int64            `json:"departamentoId" validate:"required"`
	Vagas               *int             `json:"vagas,omitempty" validate:"omitempty,gt=0"`
	EstudanteIFG        bool             `json:"estudanteIfg"`
	CamposAdicionais    []CampoAdicional `json:"camposAdicionais"`
}

// StatusInscricao é o estado de uma inscrição no servidor.
type StatusInscricao string

const (
	InscricaoAtiva     StatusInscricao = "ATIVA"
	InscricaoCancelada StatusInscricao = "CANCELADA"
)

// CampoValor é a resposta de um inscrito a um campo adicional.
type CampoValor struct {
	ID        int64           `json:"id,omitempty"`
	CampoID   int64           `json:"campoId"`
	NomeCampo string          `json:"nomeCampo,omitempty"`
	TipoCampo TipoCampo       `json:"tipoCampo,omitempty"`
	Valor     string          `json:"valor"`
	Campo     *CampoAdicional `json:"campo,omitempty"`
	Rotulo    string          `json:"nome,omitempty"`
}

// IDCampo resolve o campo por campoId, pelo campo embutido ou pelo próprio id.
func (v CampoValor) IDCampo() int64 {
	switch {
	case v.CampoID != 0:
		return v.CampoID
	case v.Campo != nil && v.Campo.ID != 0:
		return v.Campo.ID
	}
	return v.ID
}

// Nome devolve o nome do campo respondido: nomeCampo, campo.nome ou nome.
func (v CampoValor) Nome() string {
	if v.NomeCampo != "" {
		return v.NomeCampo
	}
	if v.Campo != nil && v.Campo.Nome != "" {
		return v.Campo.Nome
	}
	return v.Rotulo
}

// Inscricao vincula um usuário a um evento.
type Inscricao struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId,omitempty"`
	NomeUsuario   string          `json:"nomeUsuario,omitempty"`
	Username      string          `json:"username,omitempty"`
	User          *Usuario        `json:"user,omitempty"`
	EventoID      int64           `json:"eventoId,omitempty"`
	TituloEvento  string          `json:"tituloEvento,omitempty"`
	Evento        *Evento         `json:"evento,omitempty"`
	DataInscricao *DataHora       `json:"dataInscricao,omitempty"`
	Status        StatusInscricao `json:"status"`
	CamposValores []CampoValor    `json:"camposValores"`
}

// IDEvento resolve o evento pela referência embutida ou pelo eventoId.
func (i Inscricao) IDEvento() int64 {
	if i.Evento != nil && i.Evento.ID != 0 {
		return i.Evento.ID
	}
	return i.EventoID
}

// Ativa informa se a inscrição está ativa.
func (i Inscricao) Ativa() bool {
	return strings.EqualFold(string(i.Status), string(InscricaoAtiva))
}

// InscricaoCompletaRequest é o corpo de /api/inscricoes/inscrever-completo.
type InscricaoCompletaRequest struct {
	EventoID      int64        `json:"eventoId"`
	CamposValores []CampoValor `json:"camposValores"`
}

// PaginaUsuarios é a página devolvida por /admin/users.
type PaginaUsuarios struct {
	Content       []Usuario `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
	Number        int       `json:"number"`
}
