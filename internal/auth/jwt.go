package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenIlegivel indica que o payload do token não pôde ser lido.
var ErrTokenIlegivel = errors.New("token ilegível")

// Claims representa as informações presentes no token emitido pela API.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Identidade é a visão mínima do usuário extraída do token.
type Identidade struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// DecodeUnverified lê o payload sem verificar a assinatura.
// Serve apenas para exibição; nunca para decisões de acesso.
func DecodeUnverified(tokenString string) (*Identidade, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrTokenIlegivel
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, errors.Join(ErrTokenIlegivel, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenIlegivel
	}

	id := &Identidade{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Expirado informa se a identidade tem expiração no passado.
func (i *Identidade) Expirado(now time.Time) bool {
	return i != nil && !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}
