package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
)

// permissoes resume as ações liberadas pelo escopo para a interface.
type permissoes struct {
	GerenciarCampus    bool    `json:"gerenciarCampus"`
	AdicionarDeptoEm   []int64 `json:"adicionarDepartamentoEm"`
	RemoverDeptoEm     []int64 `json:"removerDepartamentoEm"`
	EditarDeptos       []int64 `json:"editarDepartamentos"`
	CriarEvento        bool    `json:"criarEvento"`
	SomenteVisualizar  bool    `json:"somenteVisualizar"`
	ListaCompletaAviso bool    `json:"listaCompletaAviso,omitempty"`
}

func permissoesDe(s *scope.Scope) permissoes {
	p := permissoes{
		GerenciarCampus:    s.CanManageCampus(),
		AdicionarDeptoEm:   []int64{},
		RemoverDeptoEm:     []int64{},
		EditarDeptos:       []int64{},
		SomenteVisualizar:  s.ReadOnly,
		ListaCompletaAviso: s.FallbackAllCampus,
	}
	for _, c := range s.Campus {
		if s.CanAddDepartamento(c.ID) {
			p.AdicionarDeptoEm = append(p.AdicionarDeptoEm, c.ID)
		}
		if s.CanDeleteDepartamento(c.ID) {
			p.RemoverDeptoEm = append(p.RemoverDeptoEm, c.ID)
		}
		for _, d := range c.Departamentos {
			if s.CanEditDepartamento(c.ID, d.ID) {
				p.EditarDeptos = append(p.EditarDeptos, d.ID)
			}
			if s.CanCreateEvento(c.ID, d.ID) {
				p.CriarEvento = true
			}
		}
	}
	return p
}

// Hierarquia devolve a árvore campus→departamentos visível ao administrador.
func (h *Handler) Hierarquia(w http.ResponseWriter, r *http.Request) {
	s := currentScope(r)
	WriteJSON(w, http.StatusOK, map[string]any{
		"escopo":     s,
		"permissoes": permissoesDe(s),
	})
}

type campusPayload struct {
	Nome string `json:"nome"`
}

// CreateCampus cria um campus (somente ADMIN_GERAL).
func (h *Handler) CreateCampus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	if err := currentScope(r).CheckAdicionarCampus(); err != nil {
		fail(ctx, w, c, err)
		return
	}

	var payload campusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	nome, err := h.validator.ValidateNomeCampus(payload.Nome)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}

	campus, err := h.client(r).CreateCampus(ctx, nome)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao adicionar campus: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.notifier(c).Notify(ctx, notify.Success, fmt.Sprintf("Campus %q adicionado com sucesso!", nome))
	respond(w, http.StatusCreated, campus, c)
}

// UpdateCampus renomeia um campus (somente ADMIN_GERAL).
func (h *Handler) UpdateCampus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := currentScope(r).CheckEditarCampus(); err != nil {
		fail(ctx, w, c, err)
		return
	}

	var payload campusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	nome, err := h.validator.ValidateNomeCampus(payload.Nome)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}

	campus, err := h.client(r).UpdateCampus(ctx, id, nome)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao editar campus: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.scopes.Purge()
	h.catalog.Invalidate(ctx)
	h.notifier(c).Notify(ctx, notify.Success, "Campus atualizado com sucesso!")
	respond(w, http.StatusOK, campus, c)
}

// DeleteCampus remove um campus após confirmação.
func (h *Handler) DeleteCampus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	s := currentScope(r)
	if err := s.CheckRemoverCampus(); err != nil {
		fail(ctx, w, c, err)
		return
	}

	msg := "Tem certeza que deseja remover este campus? Esta ação não poderá ser desfeita."
	for _, campus := range s.Campus {
		if campus.ID == id {
			msg = fmt.Sprintf("Tem certeza que deseja remover o campus %q? Esta ação não poderá ser desfeita.", campus.Nome)
		}
	}
	n := h.notifier(c)
	if !confirm(ctx, w, n, c, msg) {
		return
	}

	if err := h.client(r).DeleteCampus(ctx, id); err != nil {
		failDelete(ctx, w, c, err)
		return
	}
	h.scopes.Purge()
	n.Notify(ctx, notify.Success, "Campus removido com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"removido": id}, c)
}

// CreateDepartamento cria um departamento em um campus administrado.
func (h *Handler) CreateDepartamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)

	var req api.DepartamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	s := currentScope(r)
	if req.CampusID != 0 {
		if err := s.CheckAdicionarDepartamento(req.CampusID); err != nil {
			fail(ctx, w, c, err)
			return
		}
	}
	if err := h.validator.ValidateDepartamento(&req); err != nil {
		fail(ctx, w, c, err)
		return
	}

	depto, err := h.client(r).CreateDepartamento(ctx, req)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao adicionar departamento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.notifier(c).Notify(ctx, notify.Success, fmt.Sprintf("Departamento %q adicionado com sucesso!", req.Nome))
	respond(w, http.StatusCreated, depto, c)
}

// UpdateDepartamento edita nome e campus de um departamento.
func (h *Handler) UpdateDepartamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	var req api.DepartamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if err := h.validator.ValidateDepartamento(&req); err != nil {
		fail(ctx, w, c, err)
		return
	}
	s := currentScope(r)
	client := h.client(r)
	atual, err := campusAtual(ctx, s, client, id)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	// o campus de origem e o de destino precisam estar no escopo
	for _, campusID := range []int64{atual, req.CampusID} {
		if err := s.CheckEditarDepartamento(campusID, id); err != nil {
			fail(ctx, w, c, err)
			return
		}
	}

	depto, err := client.UpdateDepartamento(ctx, id, req)
	if err != nil {
		c.Notify(ctx, notify.Error, "Erro ao editar departamento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.scopes.Forget(id)
	h.catalog.Invalidate(ctx)
	h.notifier(c).Notify(ctx, notify.Success, "Departamento atualizado com sucesso!")
	respond(w, http.StatusOK, depto, c)
}

// DeleteDepartamento remove um departamento após confirmação.
func (h *Handler) DeleteDepartamento(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	s := currentScope(r)
	client := h.client(r)
	campusID, err := campusAtual(ctx, s, client, id)
	if err != nil {
		fail(ctx, w, c, err)
		return
	}
	if err := s.CheckRemoverDepartamento(campusID); err != nil {
		fail(ctx, w, c, err)
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, "Tem certeza que deseja remover este departamento? Esta ação não poderá ser desfeita.") {
		return
	}
	if err := client.DeleteDepartamento(ctx, id); err != nil {
		failDelete(ctx, w, c, err)
		return
	}
	h.scopes.Forget(id)
	n.Notify(ctx, notify.Success, "Departamento removido com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"removido": id}, c)
}

// campusAtual localiza o campus do departamento na árvore do escopo ou, fora dela, na API.
func campusAtual(ctx context.Context, s *scope.Scope, client *api.Client, departamentoID int64) (int64, error) {
	if campusID, ok := s.CampusDoDepartamento(departamentoID); ok {
		return campusID, nil
	}
	campus, err := client.GetDepartamentoCampus(ctx, departamentoID)
	if err != nil {
		return 0, err
	}
	return campus.ID, nil
}
