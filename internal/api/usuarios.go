package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ifg/eventos-portal/internal/model"
)

// TamanhoPaginaUsuarios é o tamanho de página usado na listagem administrativa.
const TamanhoPaginaUsuarios = 10

// tamanhoPaginaBusca é o tamanho de página usado para localizar um usuário pelo id.
const tamanhoPaginaBusca = 100

// ListUsuarios pagina usuários com busca opcional.
func (c *Client) ListUsuarios(ctx context.Context, page int, search string) (*model.PaginaUsuarios, error) {
	return c.listUsuarios(ctx, page, TamanhoPaginaUsuarios, search)
}

// FindUsuario localiza um usuário pelo id percorrendo /admin/users, que não tem consulta individual.
func (c *Client) FindUsuario(ctx context.Context, id int64) (*model.Usuario, error) {
	for page := 0; ; page++ {
		pagina, err := c.listUsuarios(ctx, page, tamanhoPaginaBusca, "")
		if err != nil {
			return nil, err
		}
		for i := range pagina.Content {
			if pagina.Content[i].ID == id {
				return &pagina.Content[i], nil
			}
		}
		if len(pagina.Content) == 0 || page+1 >= pagina.TotalPages {
			return nil, &Error{Status: http.StatusNotFound, Message: "usuário não encontrado"}
		}
	}
}

func (c *Client) listUsuarios(ctx context.Context, page, size int, search string) (*model.PaginaUsuarios, error) {
	if page < 0 {
		page = 0
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}

	var out model.PaginaUsuarios
	if err := c.get(ctx, "/admin/users?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRoles substitui os papéis de um usuário.
func (c *Client) UpdateRoles(ctx context.Context, userID int64, roles []model.Role) error {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return c.call(ctx, http.MethodPatch, fmt.Sprintf("/admin/users/%d/roles", userID), names, nil)
}

// AddCampusAdmin associa um campus administrado ao usuário.
func (c *Client) AddCampusAdmin(ctx context.Context, userID, campusID int64) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/campus/%d", userID, campusID), nil, nil)
}

// RemoveCampusAdmin desfaz a associação de campus.
func (c *Client) RemoveCampusAdmin(ctx context.Context, userID, campusID int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d/campus/%d", userID, campusID), nil, nil)
}

// AddDepartamentoAdmin associa um departamento administrado ao usuário.
func (c *Client) AddDepartamentoAdmin(ctx context.Context, userID, departamentoID int64) error {
	body := map[string]int64{"departamentoId": departamentoID}
	return c.call(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/departamentos", userID), body, nil)
}

// RemoveDepartamentoAdmin desfaz a associação de departamento.
func (c *Client) RemoveDepartamentoAdmin(ctx context.Context, userID, departamentoID int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d/departamentos/%d", userID, departamentoID), nil, nil)
}
