package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ifg/eventos-portal/internal/config"
)

type stubAlerter struct {
	mu     sync.Mutex
	alerts []AlertMessage
}

func (s *stubAlerter) Alert(_ context.Context, msg AlertMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, msg)
	return nil
}

func TestRunOnceTransitions(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/eventos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
	}))
	defer srv.Close()

	alerter := &stubAlerter{}
	svc := NewService(srv.URL, config.MonitoringConfig{Enabled: true}, zerolog.Nop(), alerter)
	ctx := context.Background()

	if ev := svc.RunOnce(ctx); !ev.Success {
		t.Fatalf("expected success, got %+v", ev)
	}
	if !svc.Ready() {
		t.Fatalf("expected ready")
	}

	status = http.StatusBadGateway
	svc.RunOnce(ctx)
	svc.RunOnce(ctx)
	if svc.Ready() {
		t.Fatalf("expected not ready")
	}

	status = http.StatusOK
	svc.RunOnce(ctx)

	if len(alerter.alerts) != 2 {
		t.Fatalf("expected down and resolved alerts, got %+v", alerter.alerts)
	}
	if alerter.alerts[0].Severity != "critical" || alerter.alerts[1].Severity != "resolved" {
		t.Fatalf("unexpected severities %+v", alerter.alerts)
	}

	h := svc.Health()
	if h.Checks != 4 || h.Uptime != 50 || h.ErrorRate != 50 {
		t.Fatalf("unexpected health %+v", h)
	}
	if h.LastStatus == nil || *h.LastStatus != http.StatusOK {
		t.Fatalf("unexpected last status %+v", h.LastStatus)
	}
}
