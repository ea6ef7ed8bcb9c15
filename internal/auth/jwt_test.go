package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestDecodeUnverified(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	claims := Claims{
		Roles: []string{"ADMIN_GERAL"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana@ifg.edu.br",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-que-o-portal-nao-conhece"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	id, err := DecodeUnverified(signed)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.Subject != "ana@ifg.edu.br" {
		t.Fatalf("unexpected subject %q", id.Subject)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected expiry %v", id.ExpiresAt)
	}
	if id.Expirado(time.Now()) {
		t.Fatalf("token should not be expired")
	}
	if !id.Expirado(exp.Add(time.Second)) {
		t.Fatalf("token should be expired after exp")
	}
}

func TestDecodeUnverifiedGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := DecodeUnverified(raw); !errors.Is(err, ErrTokenIlegivel) {
			t.Fatalf("%q: expected ErrTokenIlegivel, got %v", raw, err)
		}
	}
}
