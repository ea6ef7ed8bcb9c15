package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/model"
)

const catalogKey = "portal:catalogo:eventos"

// catalogCache guarda a lista pública de eventos por alguns segundos.
type catalogCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func newCatalogCache(client *redis.Client, ttl time.Duration) *catalogCache {
	return &catalogCache{redis: client, ttl: ttl}
}

func (c *catalogCache) enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

// Eventos lê do cache ou da API; falhas do Redis caem direto na API.
func (c *catalogCache) Eventos(ctx context.Context, client *api.Client) ([]model.Evento, error) {
	if c.enabled() {
		if data, err := c.redis.Get(ctx, catalogKey).Bytes(); err == nil {
			var eventos []model.Evento
			if json.Unmarshal(data, &eventos) == nil {
				return eventos, nil
			}
		}
	}

	eventos, err := client.ListEventos(ctx)
	if err != nil {
		return nil, err
	}

	if c.enabled() {
		if payload, err := json.Marshal(eventos); err == nil {
			_ = c.redis.Set(ctx, catalogKey, payload, c.ttl).Err()
		}
	}
	return eventos, nil
}

// Invalidate descarta a lista após mudanças administrativas.
func (c *catalogCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Del(ctx, catalogKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catálogo: falha ao invalidar cache")
	}
}

func httpLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
