package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/model"
)

func contadorEventos(t *testing.T) (*api.Client, *atomic.Int32) {
	t.Helper()
	var chamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/eventos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		chamadas.Add(1)
		reply(w, http.StatusOK, []model.Evento{{ID: 1, Titulo: "Semana de Tecnologia", Status: model.StatusAtivo}})
	}))
	t.Cleanup(srv.Close)

	client, err := api.New(api.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	return client, &chamadas
}

func TestCatalogCacheWithoutRedis(t *testing.T) {
	client, chamadas := contadorEventos(t)
	cache := newCatalogCache(nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		eventos, err := cache.Eventos(ctx, client)
		if err != nil || len(eventos) != 1 {
			t.Fatalf("eventos: %v %+v", err, eventos)
		}
	}
	cache.Invalidate(ctx)
	if n := chamadas.Load(); n != 2 {
		t.Fatalf("without redis every read goes to the API, got %d calls", n)
	}
}

// TEST_REDIS_URL aponta para um Redis descartável; sem ele o teste é pulado.
func TestCatalogCacheReadThrough(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL não definido")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis indisponível: %v", err)
	}
	_ = rdb.Del(ctx, catalogKey).Err()
	t.Cleanup(func() { _ = rdb.Del(context.Background(), catalogKey).Err() })

	client, chamadas := contadorEventos(t)
	cache := newCatalogCache(rdb, time.Minute)

	if _, err := cache.Eventos(ctx, client); err != nil {
		t.Fatalf("first read: %v", err)
	}
	eventos, err := cache.Eventos(ctx, client)
	if err != nil || len(eventos) != 1 || eventos[0].Titulo != "Semana de Tecnologia" {
		t.Fatalf("cached read: %v %+v", err, eventos)
	}
	if n := chamadas.Load(); n != 1 {
		t.Fatalf("second read must come from redis, got %d calls", n)
	}

	cache.Invalidate(ctx)
	if _, err := cache.Eventos(ctx, client); err != nil {
		t.Fatalf("read after invalidate: %v", err)
	}
	if n := chamadas.Load(); n != 2 {
		t.Fatalf("invalidate must force a new API read, got %d calls", n)
	}
}
