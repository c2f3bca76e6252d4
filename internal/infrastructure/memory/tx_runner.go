package memory

import (
	"context"

	"github.com/jhoicas/Accesos-api/internal/application/approval"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

var _ approval.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones con el candado del store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios atados a la transacción. Si fn devuelve error se
// restauran solicitudes y usuarios (la secuencia no retrocede, como en PostgreSQL).
func (r *TxRunner) Run(ctx context.Context, fn func(
	requestRepo repository.AccessRequestRepository,
	userRepo repository.UserRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	requests := make(map[string]*entity.AccessRequest, len(r.s.requests))
	for k, v := range r.s.requests {
		requests[k] = v
	}
	users := make(map[string]*entity.User, len(r.s.users))
	for k, v := range r.s.users {
		users[k] = v
	}

	if err := fn(&AccessRequestRepo{s: r.s, inTx: true}, &UserRepo{s: r.s, inTx: true}); err != nil {
		r.s.requests = requests
		r.s.users = users
		return err
	}
	return nil
}
