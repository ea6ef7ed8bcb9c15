package scope

import (
	"errors"

	"github.com/ifg/eventos-portal/internal/model"
)

// ErrSemPermissao é a causa comum das recusas de escopo.
var ErrSemPermissao = errors.New("sem permissão")

// PermissionError carrega a mensagem exibida ao usuário.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }

func (e *PermissionError) Unwrap() error { return ErrSemPermissao }

func negar(msg string) error {
	return &PermissionError{Msg: msg}
}

const (
	MsgCriarEvento          = "Você não tem permissão para criar eventos neste departamento"
	MsgEditarEvento         = "Você não tem permissão para editar eventos neste departamento"
	MsgAdicionarCampus      = "Você não tem permissão para adicionar um novo campus"
	MsgEditarCampus         = "Você não tem permissão para editar este campus"
	MsgRemoverCampus        = "Você não tem permissão para remover este campus"
	MsgAdicionarDepto       = "Você não tem permissão para adicionar um novo departamento"
	MsgAdicionarDeptoCampus = "Você não tem permissão para adicionar departamentos a este campus"
	MsgEditarDeptoProprio   = "Você só pode editar departamentos que administra"
	MsgEditarDeptoCampus    = "Você só pode editar departamentos de campus que administra"
	MsgEditarDepto          = "Você não tem permissão para editar departamentos"
	MsgRemoverDepto         = "Você não tem permissão para remover este departamento"
)

// Nivel resume qual ramo da resolução produziu a hierarquia.
type Nivel string

const (
	NivelGeral        Nivel = "geral"
	NivelCampus       Nivel = "campus"
	NivelDepartamento Nivel = "departamento"
	NivelUsuario      Nivel = "usuario"
)

// Scope é o escopo administrativo atual. As verificações abaixo são apenas
// orientação de interface; a API de eventos continua sendo quem autoriza.
type Scope struct {
	Nivel             Nivel          `json:"nivel"`
	Roles             []model.Role   `json:"roles"`
	Campus            []model.Campus `json:"campus"`
	CampusIDs         []int64        `json:"campusIds"`
	DepartamentoIDs   []int64        `json:"departamentoIds"`
	FallbackAllCampus bool           `json:"fallbackAllCampus,omitempty"`
	ReadOnly          bool           `json:"readOnly"`
}

func (s *Scope) has(role model.Role) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Scope) geral() bool { return s.has(model.RoleAdminGeral) }

func (s *Scope) campus() bool { return s.has(model.RoleAdminCampus) }

func (s *Scope) depto() bool { return s.has(model.RoleAdminDepartamento) }

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// GerenciaCampus indica se o campus está na lista administrada.
func (s *Scope) GerenciaCampus(id int64) bool { return contains(s.CampusIDs, id) }

// GerenciaDepartamento indica se o departamento está na lista administrada.
func (s *Scope) GerenciaDepartamento(id int64) bool { return contains(s.DepartamentoIDs, id) }

// CheckCriarEvento valida campus e departamento escolhidos para um novo evento.
func (s *Scope) CheckCriarEvento(campusID, departamentoID int64) error {
	if s.eventoPermitido(campusID, departamentoID) {
		return nil
	}
	return negar(MsgCriarEvento)
}

// CheckEditarEvento aplica a mesma regra da criação com a mensagem de edição.
func (s *Scope) CheckEditarEvento(campusID, departamentoID int64) error {
	if s.eventoPermitido(campusID, departamentoID) {
		return nil
	}
	return negar(MsgEditarEvento)
}

func (s *Scope) eventoPermitido(campusID, departamentoID int64) bool {
	switch {
	case s.geral():
		return true
	case s.campus():
		return s.GerenciaCampus(campusID)
	case s.depto():
		return s.GerenciaDepartamento(departamentoID)
	}
	return false
}

// CanCreateEvento é a forma booleana de CheckCriarEvento.
func (s *Scope) CanCreateEvento(campusID, departamentoID int64) bool {
	return s.CheckCriarEvento(campusID, departamentoID) == nil
}

// CheckAdicionarCampus permite apenas ADMIN_GERAL.
func (s *Scope) CheckAdicionarCampus() error {
	if s.geral() {
		return nil
	}
	return negar(MsgAdicionarCampus)
}

// CheckEditarCampus permite apenas ADMIN_GERAL.
func (s *Scope) CheckEditarCampus() error {
	if s.geral() {
		return nil
	}
	return negar(MsgEditarCampus)
}

// CheckRemoverCampus permite apenas ADMIN_GERAL.
func (s *Scope) CheckRemoverCampus() error {
	if s.geral() {
		return nil
	}
	return negar(MsgRemoverCampus)
}

// CanManageCampus indica se o usuário pode criar, editar e remover campus.
func (s *Scope) CanManageCampus() bool {
	return s.geral()
}

// CheckAdicionarDepartamento exige ADMIN_GERAL ou campus administrado.
func (s *Scope) CheckAdicionarDepartamento(campusID int64) error {
	if s.geral() {
		return nil
	}
	if !s.campus() {
		return negar(MsgAdicionarDepto)
	}
	if !s.GerenciaCampus(campusID) {
		return negar(MsgAdicionarDeptoCampus)
	}
	return nil
}

// CanAddDepartamento é a forma booleana de CheckAdicionarDepartamento.
func (s *Scope) CanAddDepartamento(campusID int64) bool {
	return s.CheckAdicionarDepartamento(campusID) == nil
}

// CheckEditarDepartamento valida o campus de destino e o próprio departamento.
func (s *Scope) CheckEditarDepartamento(campusID, departamentoID int64) error {
	switch {
	case s.geral():
		return nil
	case s.campus():
		if !s.GerenciaCampus(campusID) {
			return negar(MsgEditarDeptoCampus)
		}
		return nil
	case s.depto():
		if !s.GerenciaDepartamento(departamentoID) {
			return negar(MsgEditarDeptoProprio)
		}
		return nil
	}
	return negar(MsgEditarDepto)
}

// CanEditDepartamento é a forma booleana de CheckEditarDepartamento.
func (s *Scope) CanEditDepartamento(campusID, departamentoID int64) bool {
	return s.CheckEditarDepartamento(campusID, departamentoID) == nil
}

// CheckRemoverDepartamento exige ADMIN_GERAL ou o campus do departamento administrado.
func (s *Scope) CheckRemoverDepartamento(campusID int64) error {
	if s.geral() {
		return nil
	}
	if s.campus() && s.GerenciaCampus(campusID) {
		return nil
	}
	return negar(MsgRemoverDepto)
}

// CanDeleteDepartamento é a forma booleana de CheckRemoverDepartamento.
func (s *Scope) CanDeleteDepartamento(campusID int64) bool {
	return s.CheckRemoverDepartamento(campusID) == nil
}

// CampusDoDepartamento procura o campus de um departamento na hierarquia.
func (s *Scope) CampusDoDepartamento(departamentoID int64) (int64, bool) {
	for _, c := range s.Campus {
		for _, d := range c.Departamentos {
			if d.ID == departamentoID {
				return c.ID, true
			}
		}
	}
	return 0, false
}
