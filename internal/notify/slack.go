package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ifg/eventos-portal/internal/monitor"
)

// Slack publica avisos administrativos e alertas do monitor em um incoming webhook.
type Slack struct {
	webhookURL string
	portal     string
	client     *http.Client
}

// NewSlack devolve nil quando o webhook não está configurado.
func NewSlack(webhookURL, portal string) *Slack {
	if webhookURL == "" {
		return nil
	}
	return &Slack{
		webhookURL: webhookURL,
		portal:     portal,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Notify replica o aviso no canal; falhas só vão para o log.
func (s *Slack) Notify(ctx context.Context, kind Kind, msg string) {
	if s == nil {
		return
	}
	if err := s.post(ctx, s.linha(kind, "", msg)); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("notify: falha ao enviar para o slack")
	}
}

// Confirm sempre recusa; um canal externo não responde confirmações.
func (s *Slack) Confirm(context.Context, string) bool { return false }

// Alert entrega alertas de disponibilidade da API de eventos.
func (s *Slack) Alert(ctx context.Context, msg monitor.AlertMessage) error {
	if s == nil {
		return fmt.Errorf("slack: webhook não configurado")
	}
	kind := Info
	switch msg.Severity {
	case "critical":
		kind = Error
	case "warning":
		kind = Warning
	case "resolved":
		kind = Success
	}
	return s.post(ctx, s.linha(kind, msg.Title, msg.Text))
}

func (s *Slack) linha(kind Kind, titulo, texto string) string {
	emoji := ":information_source:"
	switch kind {
	case Error:
		emoji = ":rotating_light:"
	case Warning:
		emoji = ":warning:"
	case Success:
		emoji = ":white_check_mark:"
	}
	cabecalho := s.portal
	if titulo != "" {
		cabecalho += " · " + titulo
	}
	if cabecalho == "" {
		return emoji + " " + texto
	}
	return emoji + " *" + cabecalho + "*\n" + texto
}

func (s *Slack) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack: status %d", resp.StatusCode)
	}
	return nil
}
