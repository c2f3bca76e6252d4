package approval

import (
	"context"

	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que la lectura del estado, la transición y la escritura sean atómicas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		requestRepo repository.AccessRequestRepository,
		userRepo repository.UserRepository,
	) error) error
}
