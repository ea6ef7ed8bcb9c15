package notify

import (
	"context"
	"sync"
)

// Kind classifica um aviso exibido ao usuário.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
	Warning Kind = "warning"
)

// Notifier entrega avisos e pede confirmações ao usuário.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, msg string)
	Confirm(ctx context.Context, msg string) bool
}

// Aviso é um aviso coletado durante uma requisição.
type Aviso struct {
	Tipo     Kind   `json:"tipo"`
	Mensagem string `json:"mensagem"`
}

// Collector acumula avisos de uma requisição para devolvê-los na resposta.
// Confirm responde com a decisão informada pelo cliente na própria requisição.
type Collector struct {
	mu         sync.Mutex
	avisos     []Aviso
	confirmado bool
	pendente   string
}

// NewCollector cria um coletor; confirmado indica que o cliente já aceitou confirmações.
func NewCollector(confirmado bool) *Collector {
	return &Collector{confirmado: confirmado}
}

func (c *Collector) Notify(_ context.Context, kind Kind, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.avisos = append(c.avisos, Aviso{Tipo: kind, Mensagem: msg})
}

func (c *Collector) Confirm(_ context.Context, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.confirmado {
		c.pendente = msg
	}
	return c.confirmado
}

// Avisos devolve uma cópia dos avisos acumulados.
func (c *Collector) Avisos() []Aviso {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Aviso, len(c.avisos))
	copy(out, c.avisos)
	return out
}

// Pendente devolve a última confirmação recusada por falta de aceite.
func (c *Collector) Pendente() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendente
}

// Fanout repassa avisos a vários destinos; apenas o primário confirma.
type Fanout struct {
	Primary Notifier
	Extras  []Notifier
}

func (f Fanout) Notify(ctx context.Context, kind Kind, msg string) {
	if f.Primary != nil {
		f.Primary.Notify(ctx, kind, msg)
	}
	for _, n := range f.Extras {
		if n != nil {
			n.Notify(ctx, kind, msg)
		}
	}
}

func (f Fanout) Confirm(ctx context.Context, msg string) bool {
	if f.Primary == nil {
		return false
	}
	return f.Primary.Confirm(ctx, msg)
}

// Discard ignora avisos e recusa confirmações.
type Discard struct{}

func (Discard) Notify(context.Context, Kind, string) {}

func (Discard) Confirm(context.Context, string) bool { return false }
