// Package scheduler ejecuta trabajos periódicos con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Accesos-api/pkg/logger"
)

// Job trabajo periódico. Recibe un contexto con el timeout del scheduler.
type Job func(ctx context.Context) error

// Scheduler envuelve cron.Cron registrando trabajos por nombre.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration

	mu      sync.RWMutex
	entries map[string]cron.EntryID
}

// New crea el scheduler. timeout limita cada ejecución (0 = 5 minutos).
func New(log *logger.Logger, timeout time.Duration) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron:    cron.New(),
		log:     log.Named("scheduler"),
		timeout: timeout,
		entries: make(map[string]cron.EntryID),
	}
}

// Register agrega el trabajo con una expresión cron estándar (5 campos o descriptores @every).
// Un nombre repetido reemplaza la programación previa.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("expresión cron inválida %q: %w", spec, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return err
	}
	s.entries[name] = id
	s.log.Info().Str("job", name).Str("schedule", spec).Msg("trabajo programado")
	return nil
}

// RunNow ejecuta un trabajo registrado fuera de programación (útil al arrancar).
func (s *Scheduler) RunNow(name string, job Job) {
	s.run(name, job)
}

// Next devuelve la próxima ejecución del trabajo (cero si no está registrado).
func (s *Scheduler) Next(name string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Start arranca el scheduler en segundo plano.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop detiene el scheduler y espera a los trabajos en curso o al fin de ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con trabajos en curso")
	}
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", name).Interface("panic", r).Msg("trabajo abortado")
		}
	}()
	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("trabajo fallido")
		return
	}
	s.log.Debug().Str("job", name).Dur("elapsed", time.Since(start)).Msg("trabajo completado")
}
