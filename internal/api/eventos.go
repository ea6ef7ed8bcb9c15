package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ifg/eventos-portal/internal/model"
)

// ListEventos devolve o catálogo público.
func (c *Client) ListEventos(ctx context.Context) ([]model.Evento, error) {
	var out []model.Evento
	if err := c.get(ctx, "/api/eventos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvento busca um evento pelo id.
func (c *Client) GetEvento(ctx context.Context, id int64) (*model.Evento, error) {
	var evt model.Evento
	if err := c.get(ctx, fmt.Sprintf("/api/eventos/%d", id), &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// ListEventosGerenciados devolve os eventos que o administrador gerencia.
func (c *Client) ListEventosGerenciados(ctx context.Context) ([]model.Evento, error) {
	var out []model.Evento
	if err := c.get(ctx, "/api/eventos/todos-que-gerencio", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvento cria um evento.
func (c *Client) CreateEvento(ctx context.Context, req model.EventoRequest) (*model.Evento, error) {
	var evt model.Evento
	if err := c.call(ctx, http.MethodPost, "/api/eventos", req, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// UpdateEvento atualiza um evento.
func (c *Client) UpdateEvento(ctx context.Context, id int64, req model.EventoRequest) (*model.Evento, error) {
	var evt model.Evento
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/eventos/%d", id), req, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// DeleteEvento remove um evento.
func (c *Client) DeleteEvento(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/eventos/%d", id), nil, nil)
}

// EncerrarEvento marca o evento como ENCERRADO.
func (c *Client) EncerrarEvento(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("/api/eventos/%d/encerrar", id), nil, nil)
}

// ListInscritos devolve as inscrições de um evento. 204 vira lista vazia.
func (c *Client) ListInscritos(ctx context.Context, eventoID int64) ([]model.Inscricao, error) {
	var out []model.Inscricao
	if err := c.get(ctx, fmt.Sprintf("/api/eventos/%d/inscritos", eventoID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMinhasInscricoes devolve as inscrições do usuário autenticado.
func (c *Client) ListMinhasInscricoes(ctx context.Context) ([]model.Inscricao, error) {
	var out []model.Inscricao
	if err := c.get(ctx, "/api/inscricoes/minhas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InscreverSimples inscreve o usuário em um evento sem campos adicionais.
func (c *Client) InscreverSimples(ctx context.Context, eventoID int64) (*model.Inscricao, error) {
	q := url.Values{}
	q.Set("eventoId", strconv.FormatInt(eventoID, 10))

	var insc model.Inscricao
	if err := c.call(ctx, http.MethodPost, "/api/inscricoes/inscrever?"+q.Encode(), nil, &insc); err != nil {
		return nil, err
	}
	return &insc, nil
}

// InscreverCompleto inscreve o usuário enviando as respostas dos campos.
func (c *Client) InscreverCompleto(ctx context.Context, req model.InscricaoCompletaRequest) (*model.Inscricao, error) {
	var insc model.Inscricao
	if err := c.call(ctx, http.MethodPost, "/api/inscricoes/inscrever-completo", req, &insc); err != nil {
		return nil, err
	}
	return &insc, nil
}

// CancelarInscricao cancela uma inscrição.
func (c *Client) CancelarInscricao(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/inscricoes/%d", id), nil, nil)
}

// ListCampos devolve os campos adicionais de um evento.
func (c *Client) ListCampos(ctx context.Context, eventoID int64) ([]model.CampoAdicional, error) {
	var out []model.CampoAdicional
	if err := c.get(ctx, fmt.Sprintf("/api/inscricoes/evento/%d/campos", eventoID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
