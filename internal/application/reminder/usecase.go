// Package reminder recorre las solicitudes abiertas y avisa a los responsables de cada etapa.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/query"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

// Reminder aviso para un usuario con las solicitudes que esperan su acción.
type Reminder struct {
	User    *entity.User
	Waiting int
	Overdue int
	Entries []query.BacklogEntry // estados en los que el rol del usuario puede actuar
}

// Notifier entrega un recordatorio (log, correo, chat...).
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// UseCase arma los recordatorios a partir del backlog.
type UseCase struct {
	requestRepo repository.AccessRequestRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	requestRepo repository.AccessRequestRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{requestRepo: requestRepo, userRepo: userRepo, notifier: notifier, log: log, now: time.Now}
}

// WithClock reemplaza el reloj usado para decidir vencimientos.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Run calcula el backlog y notifica a cada usuario cuyo rol tiene solicitudes esperando.
// Un fallo al notificar a un usuario no detiene el resto; se devuelve el primero.
func (uc *UseCase) Run(ctx context.Context) ([]Reminder, error) {
	all, err := uc.requestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminder: listar solicitudes: %w", err)
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminder: listar usuarios: %w", err)
	}
	backlog := query.Backlog(all, entity.Day(uc.now()))

	var (
		out      []Reminder
		firstErr error
	)
	for _, u := range users {
		r := Reminder{User: u}
		for _, e := range backlog {
			if e.Waiting == 0 || !workflow.CanAct(u.Role, e.Status) {
				continue
			}
			r.Entries = append(r.Entries, e)
			r.Waiting += e.Waiting
			r.Overdue += e.Overdue
		}
		if r.Waiting == 0 {
			continue
		}
		out = append(out, r)
		if err := uc.notifier.Notify(ctx, r); err != nil {
			uc.log.Warn().Err(err).Str("user_id", u.ID).Msg("recordatorio no entregado")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	uc.log.Info().Int("recipients", len(out)).Msg("recordatorios de solicitudes pendientes")
	return out, firstErr
}
