package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

var _ repository.AccessRequestRepository = (*AccessRequestRepo)(nil)

// AccessRequestRepo implementa repository.AccessRequestRepository en memoria.
// Guarda y devuelve copias: los llamadores nunca comparten punteros con el store.
type AccessRequestRepo struct {
	s    *Store
	inTx bool
}

// NextSequence reserva el siguiente número de secuencia.
func (r *AccessRequestRepo) NextSequence(ctx context.Context) (int64, error) {
	defer r.s.lock(r.inTx)()
	r.s.seq++
	return r.s.seq, nil
}

// Create persiste una solicitud nueva. ID repetido devuelve domain.ErrConflict.
func (r *AccessRequestRepo) Create(ctx context.Context, req *entity.AccessRequest) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.requests[req.ID]; ok {
		return fmt.Errorf("%w: solicitud %s ya existe", domain.ErrConflict, req.ID)
	}
	r.s.requests[req.ID] = req.Clone()
	return nil
}

// GetByID devuelve la solicitud o (nil, nil) si no existe.
func (r *AccessRequestRepo) GetByID(ctx context.Context, id string) (*entity.AccessRequest, error) {
	defer r.s.lock(r.inTx)()
	return r.s.requests[id].Clone(), nil
}

// GetForUpdate equivale a GetByID: dentro de Run el candado del store ya está tomado.
func (r *AccessRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.AccessRequest, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todas las solicitudes.
func (r *AccessRequestRepo) List(ctx context.Context) ([]*entity.AccessRequest, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.AccessRequest, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		out = append(out, req.Clone())
	}
	return out, nil
}

// UpdateIfStatus reemplaza la solicitud si su estado almacenado sigue siendo expected.
func (r *AccessRequestRepo) UpdateIfStatus(ctx context.Context, req *entity.AccessRequest, expected entity.Status) error {
	defer r.s.lock(r.inTx)()
	stored, ok := r.s.requests[req.ID]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: estado actual %s, esperado %s", domain.ErrConflict, stored.Status, expected)
	}
	r.s.requests[req.ID] = req.Clone()
	return nil
}
