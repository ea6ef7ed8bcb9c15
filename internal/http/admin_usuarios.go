package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	httpmiddleware "github.com/ifg/eventos-portal/internal/http/middleware"
	"github.com/ifg/eventos-portal/internal/model"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
)

const msgEditarUsuario = "Você não tem permissão para editar este usuário."

type usuarioView struct {
	model.Usuario
	Editavel bool `json:"editavel"`
}

func editavel(u model.Usuario, selfID int64) bool {
	if u.ID == selfID {
		return false
	}
	for _, r := range u.Roles {
		if r == model.RoleAdminGeral {
			return false
		}
	}
	return true
}

func selfID(r *http.Request) int64 {
	sess := httpmiddleware.GetSession(r.Context())
	if sess == nil || sess.Usuario == nil {
		return 0
	}
	return sess.Usuario.ID
}

// alvo lê o id do usuário do caminho e recusa a si mesmo e contas ADMIN_GERAL.
func (h *Handler) alvo(w http.ResponseWriter, r *http.Request, c *notify.Collector) (int64, bool) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return 0, false
	}
	self := selfID(r)
	if id == self {
		fail(ctx, w, c, &scope.PermissionError{Msg: msgEditarUsuario})
		return 0, false
	}
	u, err := h.client(r).FindUsuario(ctx, id)
	if err != nil {
		fail(ctx, w, c, err)
		return 0, false
	}
	if !editavel(*u, self) {
		fail(ctx, w, c, &scope.PermissionError{Msg: msgEditarUsuario})
		return 0, false
	}
	return id, true
}

// ListUsuarios pagina os usuários marcando quais podem ser editados.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	pagina, err := h.client(r).ListUsuarios(ctx, page, r.URL.Query().Get("q"))
	if err != nil {
		fail(ctx, w, nil, err)
		return
	}

	self := selfID(r)
	usuarios := make([]usuarioView, 0, len(pagina.Content))
	for _, u := range pagina.Content {
		usuarios = append(usuarios, usuarioView{Usuario: u, Editavel: editavel(u, self)})
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"usuarios":      usuarios,
		"pagina":        pagina.Number,
		"totalPaginas":  pagina.TotalPages,
		"totalUsuarios": pagina.TotalElements,
	})
}

type rolesPayload struct {
	Roles []model.Role `json:"roles"`
}

// UpdateRoles substitui os papéis do usuário.
func (h *Handler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.alvo(w, r, c)
	if !ok {
		return
	}

	var payload rolesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}
	if len(payload.Roles) == 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "informe ao menos um papel", nil)
		return
	}
	s := currentScope(r)
	for _, role := range payload.Roles {
		switch role {
		case model.RoleUser, model.RoleAdminCampus, model.RoleAdminDepartamento:
		case model.RoleAdminGeral:
			if !s.CanManageCampus() {
				fail(ctx, w, c, &scope.PermissionError{Msg: msgEditarUsuario})
				return
			}
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", "papel desconhecido: "+string(role), nil)
			return
		}
	}

	if err := h.client(r).UpdateRoles(ctx, id, payload.Roles); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao atualizar papéis: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.notifier(c).Notify(ctx, notify.Success, "Papéis atualizados com sucesso!")
	respond(w, http.StatusOK, map[string]any{"id": id, "roles": payload.Roles}, c)
}

// AddCampusAdmin torna o usuário administrador do campus.
func (h *Handler) AddCampusAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.alvo(w, r, c)
	if !ok {
		return
	}
	campusID, err := pathID(r, "campusId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if !currentScope(r).CanManageCampus() {
		fail(ctx, w, c, &scope.PermissionError{Msg: msgEditarUsuario})
		return
	}

	if err := h.client(r).AddCampusAdmin(ctx, id, campusID); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao adicionar campus: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.scopes.Purge()
	h.notifier(c).Notify(ctx, notify.Success, "Campus adicionado ao usuário com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"usuario": id, "campus": campusID}, c)
}

// RemoveCampusAdmin remove o campus administrado pelo usuário após confirmação.
func (h *Handler) RemoveCampusAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.alvo(w, r, c)
	if !ok {
		return
	}
	campusID, err := pathID(r, "campusId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if !currentScope(r).CanManageCampus() {
		fail(ctx, w, c, &scope.PermissionError{Msg: msgEditarUsuario})
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, "Tem certeza que deseja remover este campus do usuário?") {
		return
	}
	if err := h.client(r).RemoveCampusAdmin(ctx, id, campusID); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao remover campus: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.scopes.Purge()
	n.Notify(ctx, notify.Success, "Campus removido do usuário com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"usuario": id, "campus": campusID}, c)
}

type departamentoAdminPayload struct {
	DepartamentoID int64 `json:"departamentoId"`
}

// checkDepartamento recusa departamentos fora do escopo de quem edita.
func checkDepartamento(s *scope.Scope, departamentoID int64) error {
	if s.CanManageCampus() {
		return nil
	}
	if _, ok := s.CampusDoDepartamento(departamentoID); ok {
		return nil
	}
	return &scope.PermissionError{Msg: msgEditarUsuario}
}

// AddDepartamentoAdmin torna o usuário administrador do departamento.
func (h *Handler) AddDepartamentoAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.alvo(w, r, c)
	if !ok {
		return
	}

	var payload departamentoAdminPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.DepartamentoID <= 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "selecione um departamento", nil)
		return
	}
	if err := checkDepartamento(currentScope(r), payload.DepartamentoID); err != nil {
		fail(ctx, w, c, err)
		return
	}

	if err := h.client(r).AddDepartamentoAdmin(ctx, id, payload.DepartamentoID); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao adicionar departamento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	h.notifier(c).Notify(ctx, notify.Success, "Departamento adicionado ao usuário com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"usuario": id, "departamento": payload.DepartamentoID}, c)
}

// RemoveDepartamentoAdmin remove o departamento administrado pelo usuário após confirmação.
func (h *Handler) RemoveDepartamentoAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c := collector(r)
	id, ok := h.alvo(w, r, c)
	if !ok {
		return
	}
	departamentoID, err := pathID(r, "departamentoId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	if err := checkDepartamento(currentScope(r), departamentoID); err != nil {
		fail(ctx, w, c, err)
		return
	}

	n := h.notifier(c)
	if !confirm(ctx, w, n, c, "Tem certeza que deseja remover este departamento do usuário?") {
		return
	}
	if err := h.client(r).RemoveDepartamentoAdmin(ctx, id, departamentoID); err != nil {
		c.Notify(ctx, notify.Error, "Erro ao remover departamento: "+err.Error())
		fail(ctx, w, c, err)
		return
	}
	n.Notify(ctx, notify.Success, "Departamento removido do usuário com sucesso!")
	respond(w, http.StatusOK, map[string]int64{"usuario": id, "departamento": departamentoID}, c)
}
