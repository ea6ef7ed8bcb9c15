package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ifg/eventos-portal/internal/model"
)

// ListCampus devolve todos os campus com departamentos aninhados.
func (c *Client) ListCampus(ctx context.Context) ([]model.Campus, error) {
	var out []model.Campus
	if err := c.get(ctx, "/api/campus", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCampus busca um campus.
func (c *Client) GetCampus(ctx context.Context, id int64) (*model.Campus, error) {
	var out model.Campus
	if err := c.get(ctx, fmt.Sprintf("/api/campus/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCampus cria um campus.
func (c *Client) CreateCampus(ctx context.Context, nome string) (*model.Campus, error) {
	var out model.Campus
	if err := c.call(ctx, http.MethodPost, "/api/campus", map[string]string{"nome": nome}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCampus renomeia um campus.
func (c *Client) UpdateCampus(ctx context.Context, id int64, nome string) (*model.Campus, error) {
	var out model.Campus
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/campus/%d", id), map[string]string{"nome": nome}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCampus remove um campus.
func (c *Client) DeleteCampus(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/campus/%d", id), nil, nil)
}

// ListDepartamentos devolve departamentos, opcionalmente filtrados por campus.
func (c *Client) ListDepartamentos(ctx context.Context, campusID int64) ([]model.Departamento, error) {
	path := "/api/departamentos"
	if campusID > 0 {
		q := url.Values{}
		q.Set("campusId", strconv.FormatInt(campusID, 10))
		path += "?" + q.Encode()
	}
	var out []model.Departamento
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDepartamentosGerenciados devolve os departamentos do administrador.
func (c *Client) ListDepartamentosGerenciados(ctx context.Context) ([]model.Departamento, error) {
	var out []model.Departamento
	if err := c.get(ctx, "/api/departamentos/gerenciados", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDepartamento busca um departamento.
func (c *Client) GetDepartamento(ctx context.Context, id int64) (*model.Departamento, error) {
	var out model.Departamento
	if err := c.get(ctx, fmt.Sprintf("/api/departamentos/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDepartamentoCampus busca o campus ao qual o departamento pertence.
func (c *Client) GetDepartamentoCampus(ctx context.Context, id int64) (*model.Campus, error) {
	var out model.Campus
	if err := c.get(ctx, fmt.Sprintf("/api/departamentos/%d/campus", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DepartamentoRequest é o corpo de criação e edição de departamentos.
type DepartamentoRequest struct {
	Nome     string `json:"nome" validate:"required"`
	CampusID int64  `json:"campusId" validate:"required"`
}

// CreateDepartamento cria um departamento.
func (c *Client) CreateDepartamento(ctx context.Context, req DepartamentoRequest) (*model.Departamento, error) {
	var out model.Departamento
	if err := c.call(ctx, http.MethodPost, "/api/departamentos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDepartamento atualiza um departamento.
func (c *Client) UpdateDepartamento(ctx context.Context, id int64, req DepartamentoRequest) (*model.Departamento, error) {
	var out model.Departamento
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/departamentos/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDepartamento remove um departamento.
func (c *Client) DeleteDepartamento(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/departamentos/%d", id), nil, nil)
}
