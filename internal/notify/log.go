package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier registra avisos no log estruturado.
type LogNotifier struct {
	logger      zerolog.Logger
	autoConfirm bool
}

// NewLogNotifier cria um notificador de log; autoConfirm define a resposta de Confirm.
func NewLogNotifier(logger zerolog.Logger, autoConfirm bool) *LogNotifier {
	return &LogNotifier{logger: logger, autoConfirm: autoConfirm}
}

func (l *LogNotifier) Notify(_ context.Context, kind Kind, msg string) {
	var event *zerolog.Event
	switch kind {
	case Error:
		event = l.logger.Error()
	case Warning:
		event = l.logger.Warn()
	default:
		event = l.logger.Info()
	}
	event.Str("kind", string(kind)).Msg(msg)
}

func (l *LogNotifier) Confirm(_ context.Context, msg string) bool {
	l.logger.Info().Bool("confirmado", l.autoConfirm).Msg(msg)
	return l.autoConfirm
}
