package repository

import (
	"context"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// AccessRequestRepository define el puerto de persistencia para AccessRequest.
// Las solicitudes nunca se eliminan.
type AccessRequestRepository interface {
	// NextSequence reserva el siguiente número de la secuencia de IDs (1, 2, 3, ...).
	// Nunca devuelve el mismo valor dos veces, aun con creaciones concurrentes.
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, req *entity.AccessRequest) error
	// GetByID devuelve (nil, nil) si la solicitud no existe.
	GetByID(ctx context.Context, id string) (*entity.AccessRequest, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción
	// (en stores sin transacciones equivale a GetByID).
	GetForUpdate(ctx context.Context, id string) (*entity.AccessRequest, error)
	List(ctx context.Context) ([]*entity.AccessRequest, error)
	// UpdateIfStatus persiste la solicitud solo si su estado almacenado sigue siendo expected
	// (compare-and-swap). Devuelve domain.ErrConflict si otro escritor avanzó el estado.
	UpdateIfStatus(ctx context.Context, req *entity.AccessRequest, expected entity.Status) error
}
