package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ifg/eventos-portal/internal/model"
)

// Credenciais é o corpo de /api/auth/login.
type Credenciais struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registro é o corpo de /api/auth/registrar.
type Registro struct {
	NomeCompleto string `json:"nomeCompleto" validate:"required"`
	Username     string `json:"username" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
}

// Login autentica e devolve o token emitido pelo servidor.
func (c *Client) Login(ctx context.Context, cred Credenciais) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", cred, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("api: login sem token")
	}
	return resp.Token, nil
}

// Registrar cria uma conta de usuário comum.
func (c *Client) Registrar(ctx context.Context, reg Registro) error {
	return c.call(ctx, http.MethodPost, "/api/auth/registrar", reg, nil)
}

// CurrentUser busca o perfil do dono do token.
func (c *Client) CurrentUser(ctx context.Context) (*model.Usuario, error) {
	var u model.Usuario
	if err := c.get(ctx, "/api/auth/current-user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// LoadProfile busca o perfil usando o token informado.
func (c *Client) LoadProfile(ctx context.Context, token string) (*model.Usuario, error) {
	return c.WithToken(token).CurrentUser(ctx)
}
