// Package notify implementa la entrega de recordatorios.
package notify

import (
	"context"

	"github.com/jhoicas/Accesos-api/internal/application/reminder"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

var _ reminder.Notifier = (*LogNotifier)(nil)

// LogNotifier escribe cada recordatorio en el log estructurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Named("reminder")}
}

// Notify registra el recordatorio con un campo por estado.
func (n *LogNotifier) Notify(_ context.Context, r reminder.Reminder) error {
	ev := n.log.Info().
		Str("user_id", r.User.ID).
		Str("email", r.User.Email).
		Str("role", string(r.User.Role)).
		Int("waiting", r.Waiting).
		Int("overdue", r.Overdue)
	for _, e := range r.Entries {
		ev = ev.Int(string(e.Status), e.Waiting)
	}
	ev.Msg("solicitudes esperando su acción")
	return nil
}
