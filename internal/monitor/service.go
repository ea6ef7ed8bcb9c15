package monitor

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/ifg/eventos-portal/internal/config"
)

var (
	upstreamUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portal_upstream_up",
		Help: "1 quando a API de eventos respondeu à última verificação.",
	})
	upstreamCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_upstream_check_duration_seconds",
		Help:    "Duração das verificações da API de eventos.",
		Buckets: prometheus.DefBuckets,
	})
)

// CheckEvent é o resultado de uma verificação.
type CheckEvent struct {
	OccurredAt time.Time `json:"occurred_at"`
	StatusCode int       `json:"status_code,omitempty"`
	ResponseMS int       `json:"response_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// Health resume a janela de verificações mantida em memória.
type Health struct {
	Up            bool       `json:"up"`
	Uptime        float64    `json:"uptime"`
	ErrorRate     float64    `json:"error_rate"`
	ResponseP95MS *int       `json:"response_p95_ms"`
	LastStatus    *int       `json:"last_status"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	Checks        int        `json:"checks"`
}

// Alerter entrega alertas de disponibilidade a um canal externo.
type Alerter interface {
	Alert(ctx context.Context, msg AlertMessage) error
}

// AlertMessage é o conteúdo de um alerta. Severity: info, warning, critical ou resolved.
type AlertMessage struct {
	Title    string
	Text     string
	Severity string
}

// Service verifica periodicamente a API de eventos e alerta mudanças de estado.
type Service struct {
	target   string
	cfg      config.MonitoringConfig
	client   *http.Client
	alerter  Alerter
	logger   zerolog.Logger

	mu        sync.RWMutex
	checks    []CheckEvent
	down      bool
	lastAlert map[string]time.Time

	once   sync.Once
	cancel context.CancelFunc
}

const janelaMaxima = 288

// NewService cria o monitor da API. alerter pode ser nil.
func NewService(apiBaseURL string, cfg config.MonitoringConfig, logger zerolog.Logger, alerter Alerter) *Service {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		target:    apiBaseURL + "/api/eventos",
		cfg:       cfg,
		client:    &http.Client{Timeout: timeout},
		alerter:   alerter,
		logger:    logger,
		lastAlert: make(map[string]time.Time),
	}
}

// Start inicia loop periódico. Seguro para chamar múltiplas vezes.
func (s *Service) Start(parent context.Context) {
	if !s.cfg.Enabled {
		return
	}
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		s.cancel = cancel
		go s.runLoop(ctx)
	})
}

// Stop encerra loop periódico.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) runLoop(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("monitor: loop iniciado")
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("monitor: loop encerrado")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce faz uma verificação e avalia alertas.
func (s *Service) RunOnce(ctx context.Context) CheckEvent {
	event := s.check(ctx)

	s.mu.Lock()
	s.checks = append(s.checks, event)
	if len(s.checks) > janelaMaxima {
		s.checks = s.checks[len(s.checks)-janelaMaxima:]
	}
	wasDown := s.down
	s.down = !event.Success
	s.mu.Unlock()

	if event.Success {
		upstreamUp.Set(1)
	} else {
		upstreamUp.Set(0)
		s.logger.Warn().Str("error", event.Error).Int("status", event.StatusCode).Msg("monitor: api indisponível")
	}

	s.evaluateAlerts(ctx, event, wasDown)
	return event
}

func (s *Service) check(ctx context.Context) CheckEvent {
	requestCtx, cancel := context.WithTimeout(ctx, s.client.Timeout)
	defer cancel()

	event := CheckEvent{OccurredAt: time.Now()}

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, s.target, nil)
	if err != nil {
		event.Error = err.Error()
		return event
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	duration := time.Since(start)
	upstreamCheckDuration.Observe(duration.Seconds())
	event.ResponseMS = int(duration.Milliseconds())

	if err != nil {
		event.Error = err.Error()
		return event
	}
	defer resp.Body.Close()

	event.StatusCode = resp.StatusCode
	event.Success = resp.StatusCode >= 200 && resp.StatusCode < 400
	if !event.Success {
		event.Error = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return event
}

func (s *Service) evaluateAlerts(ctx context.Context, event CheckEvent, wasDown bool) {
	if s.alerter == nil {
		return
	}

	const title = "API de eventos"
	var alerts []AlertMessage

	switch {
	case !event.Success && !wasDown:
		alerts = append(alerts, AlertMessage{Title: title, Text: "API indisponível: " + event.Error, Severity: "critical"})
	case event.Success && wasDown:
		alerts = append(alerts, AlertMessage{Title: title, Text: "API voltou a responder", Severity: "resolved"})
	}

	if event.Success {
		latency := time.Duration(event.ResponseMS) * time.Millisecond
		if s.cfg.LatencyWarning > 0 && latency > s.cfg.LatencyWarning && !s.shouldThrottleAlert("latency", event.OccurredAt) {
			alerts = append(alerts, AlertMessage{
				Title:    title,
				Text:     fmt.Sprintf("Resposta %s acima do limite (%s)", latency, s.cfg.LatencyWarning),
				Severity: "warning",
			})
		}
	}

	for _, alert := range alerts {
		if err := s.alerter.Alert(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("severity", alert.Severity).Msg("monitor: falha ao enviar alerta")
		}
	}
}

func (s *Service) shouldThrottleAlert(alertType string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastAlert[alertType]; ok && now.Sub(last) < 30*time.Minute {
		return true
	}
	s.lastAlert[alertType] = now
	return false
}

// Ready indica se a última verificação teve sucesso. Sem verificações, assume pronto.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.down
}

// Health consolida a janela de verificações.
func (s *Service) Health() Health {
	s.mu.RLock()
	checks := make([]CheckEvent, len(s.checks))
	copy(checks, s.checks)
	down := s.down
	s.mu.RUnlock()

	h := Health{Up: !down, Checks: len(checks)}
	if len(checks) == 0 {
		return h
	}

	success := 0
	var latencies []int
	for _, c := range checks {
		if c.Success {
			success++
			latencies = append(latencies, c.ResponseMS)
		}
	}
	uptime := float64(success) / float64(len(checks))
	h.Uptime = round2(uptime * 100)
	h.ErrorRate = round2((1 - uptime) * 100)

	if len(latencies) > 0 {
		sort.Ints(latencies)
		idx := int(math.Ceil(0.95*float64(len(latencies)))) - 1
		p95 := latencies[idx]
		h.ResponseP95MS = &p95
	}

	last := checks[len(checks)-1]
	h.LastCheckedAt = &last.OccurredAt
	if last.StatusCode != 0 {
		status := last.StatusCode
		h.LastStatus = &status
	}
	return h
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
