package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/ifg/eventos-portal/internal/model"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_scope_cache_hits_total",
		Help: "Consultas departamento→campus atendidas pelo cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_scope_cache_misses_total",
		Help: "Consultas departamento→campus que foram à API.",
	})
)

// PlaceholderCampusID agrupa departamentos cujo campus não foi resolvido.
const PlaceholderCampusID int64 = 0

// PlaceholderCampus é o campus sintético usado quando a resolução falha.
func PlaceholderCampus() model.Campus {
	return model.Campus{ID: PlaceholderCampusID, Nome: "Campus Não Identificado"}
}

// Directory é a parte da API usada para montar a hierarquia.
type Directory interface {
	ListCampus(ctx context.Context) ([]model.Campus, error)
	GetDepartamentoCampus(ctx context.Context, id int64) (*model.Campus, error)
	GetDepartamento(ctx context.Context, id int64) (*model.Departamento, error)
}

// Resolver monta a hierarquia campus→departamentos conforme o papel.
type Resolver struct {
	cache  *expirable.LRU[int64, model.Campus]
	logger zerolog.Logger
}

func NewResolver(size int, ttl time.Duration, logger zerolog.Logger) *Resolver {
	if size <= 0 {
		size = 256
	}
	return &Resolver{
		cache:  expirable.NewLRU[int64, model.Campus](size, nil, ttl),
		logger: logger,
	}
}

// Forget remove um departamento do cache após edição.
func (r *Resolver) Forget(departamentoID int64) {
	r.cache.Remove(departamentoID)
}

// Purge esvazia o cache.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// Resolve produz o escopo do usuário. user pode ser nil quando o perfil não carregou.
func (r *Resolver) Resolve(ctx context.Context, dir Directory, user *model.Usuario, roles []model.Role) (*Scope, error) {
	s := &Scope{Roles: append([]model.Role(nil), roles...)}
	if user != nil {
		for _, c := range user.CampusQueAdministro {
			s.CampusIDs = append(s.CampusIDs, c.ID)
		}
		for _, d := range user.DepartamentosQueAdministro {
			s.DepartamentoIDs = append(s.DepartamentoIDs, d.ID)
		}
	}

	switch {
	case s.geral():
		s.Nivel = NivelGeral
		all, err := dir.ListCampus(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar campus: %w", err)
		}
		s.Campus = all

	case s.campus():
		s.Nivel = NivelCampus
		var managed []model.Campus
		if user != nil {
			managed = user.CampusQueAdministro
		}
		if len(managed) == 0 {
			r.logger.Warn().Msg("escopo: ADMIN_CAMPUS sem campus administrados, exibindo todos")
			all, err := dir.ListCampus(ctx)
			if err != nil {
				return nil, fmt.Errorf("listar campus: %w", err)
			}
			s.Campus = all
			s.FallbackAllCampus = true
			break
		}
		s.Campus = r.withDepartamentos(ctx, dir, managed)

	case s.depto():
		s.Nivel = NivelDepartamento
		var managed []model.Departamento
		if user != nil {
			managed = user.DepartamentosQueAdministro
		}
		s.Campus = r.groupByCampus(ctx, dir, managed)

	default:
		s.Nivel = NivelUsuario
		s.ReadOnly = true
		all, err := dir.ListCampus(ctx)
		if err != nil {
			return nil, fmt.Errorf("listar campus: %w", err)
		}
		s.Campus = all
	}

	if s.Campus == nil {
		s.Campus = []model.Campus{}
	}
	return s, nil
}

// withDepartamentos completa campus administrados sem departamentos aninhados.
func (r *Resolver) withDepartamentos(ctx context.Context, dir Directory, managed []model.Campus) []model.Campus {
	out := make([]model.Campus, len(managed))
	copy(out, managed)

	missing := false
	for _, c := range out {
		if len(c.Departamentos) == 0 {
			missing = true
			break
		}
	}
	if !missing {
		return out
	}

	all, err := dir.ListCampus(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("escopo: não foi possível completar departamentos dos campus")
		return out
	}
	byID := make(map[int64]model.Campus, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	for i := range out {
		if len(out[i].Departamentos) == 0 {
			if full, ok := byID[out[i].ID]; ok {
				out[i].Departamentos = full.Departamentos
			}
		}
	}
	return out
}

// groupByCampus agrupa departamentos pelo campus resolvido, preservando a ordem.
func (r *Resolver) groupByCampus(ctx context.Context, dir Directory, deptos []model.Departamento) []model.Campus {
	var out []model.Campus
	index := make(map[int64]int)

	for _, d := range deptos {
		campus := r.resolveCampus(ctx, dir, d)
		pos, ok := index[campus.ID]
		if !ok {
			entry := model.Campus{ID: campus.ID, Nome: campus.Nome}
			out = append(out, entry)
			pos = len(out) - 1
			index[campus.ID] = pos
		}
		out[pos].Departamentos = append(out[pos].Departamentos, model.Departamento{ID: d.ID, Nome: d.Nome})
	}
	return out
}

// resolveCampus tenta, em ordem: campus embutido, cache, /{id}/campus, /{id}.
func (r *Resolver) resolveCampus(ctx context.Context, dir Directory, d model.Departamento) model.Campus {
	if d.Campus != nil && d.Campus.ID != 0 {
		return model.Campus{ID: d.Campus.ID, Nome: d.Campus.Nome}
	}

	if c, ok := r.cache.Get(d.ID); ok {
		cacheHitsTotal.Inc()
		return c
	}
	cacheMissesTotal.Inc()

	if c, err := dir.GetDepartamentoCampus(ctx, d.ID); err == nil && c != nil && c.ID != 0 {
		resolved := model.Campus{ID: c.ID, Nome: c.Nome}
		r.cache.Add(d.ID, resolved)
		return resolved
	} else if err != nil {
		r.logger.Debug().Err(err).Int64("departamento", d.ID).Msg("escopo: /campus do departamento falhou")
	}

	if full, err := dir.GetDepartamento(ctx, d.ID); err == nil && full != nil && full.Campus != nil && full.Campus.ID != 0 {
		resolved := model.Campus{ID: full.Campus.ID, Nome: full.Campus.Nome}
		r.cache.Add(d.ID, resolved)
		return resolved
	} else if err != nil {
		r.logger.Debug().Err(err).Int64("departamento", d.ID).Msg("escopo: detalhe do departamento falhou")
	}

	r.logger.Warn().Int64("departamento", d.ID).Msg("escopo: campus não resolvido, usando placeholder")
	return PlaceholderCampus()
}
