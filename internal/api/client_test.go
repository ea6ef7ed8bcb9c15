package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ifg/eventos-portal/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return c
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":1,"username":"ana@ifg.edu.br","roles":[{"name":"ADMIN_GERAL"}]}`))
	})

	u, err := c.WithToken("abc").CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if u.Roles[0] != model.RoleAdminGeral {
		t.Fatalf("unexpected roles %v", u.Roles)
	}
	if c.Token() != "" {
		t.Fatalf("WithToken must not mutate the original client")
	}
}

func TestNoContentIsEmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/eventos/4/inscritos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := c.ListInscritos(context.Background(), 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d", len(out))
	}
}

func TestInscreverRoutes(t *testing.T) {
	var paths []string
	var body model.InscricaoCompletaRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.RequestURI())
		if r.URL.Path == "/api/inscricoes/inscrever-completo" {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
		}
		_, _ = w.Write([]byte(`{"id":10,"eventoId":3,"status":"ATIVA"}`))
	})

	ctx := context.Background()
	if _, err := c.InscreverSimples(ctx, 3); err != nil {
		t.Fatalf("simples: %v", err)
	}
	req := model.InscricaoCompletaRequest{EventoID: 3, CamposValores: []model.CampoValor{{CampoID: 1, Valor: "Acme"}}}
	if _, err := c.InscreverCompleto(ctx, req); err != nil {
		t.Fatalf("completo: %v", err)
	}

	want := []string{"POST /api/inscricoes/inscrever?eventoId=3", "POST /api/inscricoes/inscrever-completo"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("call %d: expected %q got %q", i, want[i], paths[i])
		}
	}
	if len(body.CamposValores) != 1 || body.CamposValores[0].Valor != "Acme" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestServerErrorsKeepMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"texto", "Você já está inscrito neste evento", "Você já está inscrito neste evento"},
		{"json", `{"message":"Evento encerrado"}`, "Evento encerrado"},
		{"vazio", "", "status 400"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.ListEventos(context.Background())
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.Message != tc.want || apiErr.Status != http.StatusBadRequest {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestFriendlyDeleteMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"campus com usuarios", &Error{Status: 500, Message: `ERRO: atualização ou exclusão em tabela "campus" viola restrição de chave estrangeira "fk" em "user_campus"`}, MsgCampusEmUso},
		{"item em uso", &Error{Status: 500, Message: `viola restrição de chave estrangeira "fk_evento"`}, MsgItemEmUso},
		{"generico", &Error{Status: 500, Message: "falhou"}, "Erro ao executar a operação: falhou"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FriendlyDeleteMessage(tc.err); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestListUsuariosQuery(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"content":[],"totalPages":0}`))
	})
	if _, err := c.ListUsuarios(context.Background(), 2, " ana "); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got != "page=2&search=ana&size=10" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestFindUsuarioWalksPages(t *testing.T) {
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		if r.URL.Query().Get("size") != "100" {
			t.Errorf("unexpected size %q", r.URL.Query().Get("size"))
		}
		switch r.URL.Query().Get("page") {
		case "0":
			_, _ = w.Write([]byte(`{"content":[{"id":1,"username":"ana@ifg.edu.br","roles":[{"name":"USER"}]}],"totalPages":2,"number":0}`))
		default:
			_, _ = w.Write([]byte(`{"content":[{"id":3,"username":"carla@ifg.edu.br","roles":[{"name":"ADMIN_GERAL"}]}],"totalPages":2,"number":1}`))
		}
	})
	ctx := context.Background()

	u, err := c.FindUsuario(ctx, 3)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Username != "carla@ifg.edu.br" || u.Roles[0] != model.RoleAdminGeral {
		t.Fatalf("unexpected user %+v", u)
	}

	_, err = c.FindUsuario(ctx, 42)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("expected two pages per lookup, got %v", pages)
	}
}
