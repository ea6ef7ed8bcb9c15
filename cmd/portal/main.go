package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/api"
	"github.com/ifg/eventos-portal/internal/config"
	"github.com/ifg/eventos-portal/internal/form"
	internalhttp "github.com/ifg/eventos-portal/internal/http"
	"github.com/ifg/eventos-portal/internal/monitor"
	"github.com/ifg/eventos-portal/internal/notify"
	"github.com/ifg/eventos-portal/internal/scope"
	"github.com/ifg/eventos-portal/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("portal encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	client, err := api.New(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	var (
		redisClient *redis.Client
		store       session.Store = session.NewMemoryStore()
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient)
	} else {
		log.Warn().Msg("REDIS_URL vazio: sessões e catálogo ficam apenas em memória")
	}

	manager := session.NewManager(store, client, session.Options{
		TTL:         cfg.SessionTTL,
		LogoutGrace: cfg.LogoutGrace,
		Logger:      log.With().Str("component", "session").Logger(),
	})
	manager.Subscribe(func(m session.Mudanca) {
		log.Info().Str("tipo", string(m.Tipo)).Str("subject", m.Session.Subject()).Msg("sessão alterada")
	})

	// extras recebem cópia dos avisos administrativos
	extras := []notify.Notifier{notify.NewLogNotifier(log.With().Str("component", "audit").Logger(), false)}
	var alertas monitor.Alerter
	if slack := notify.NewSlack(cfg.Monitoring.SlackWebhookURL, "Portal de Eventos IFG"); slack != nil {
		alertas = slack
		extras = append(extras, slack)
	}

	var mon *monitor.Service
	if cfg.Monitoring.Enabled {
		mon = monitor.NewService(cfg.APIBaseURL, cfg.Monitoring, log.With().Str("component", "monitor").Logger(), alertas)
		mon.Start(ctx)
		defer mon.Stop()
	}

	handler, err := internalhttp.NewRouter(internalhttp.Deps{
		Config:    cfg,
		API:       client,
		Redis:     redisClient,
		Sessions:  manager,
		Scopes:    scope.NewResolver(cfg.ScopeCache.Size, cfg.ScopeCache.TTL, log.With().Str("component", "scope").Logger()),
		Validator: form.NewValidator(),
		Monitor:   mon,
		Extras:    extras,
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("api", cfg.APIBaseURL).Msgf("portal ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	manager.Drain()
	return nil
}
