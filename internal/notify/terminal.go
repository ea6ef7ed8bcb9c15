package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal escreve avisos e lê confirmações em um terminal.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

var prefixos = map[Kind]string{
	Success: "[ok]",
	Error:   "[erro]",
	Info:    "[info]",
	Warning: "[aviso]",
}

func (t *Terminal) Notify(_ context.Context, kind Kind, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix, ok := prefixos[kind]
	if !ok {
		prefix = "[" + string(kind) + "]"
	}
	fmt.Fprintf(t.out, "%s %s\n", prefix, msg)
}

func (t *Terminal) Confirm(_ context.Context, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s [s/N] ", msg)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
