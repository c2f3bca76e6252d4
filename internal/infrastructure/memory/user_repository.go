package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct {
	s    *Store
	inTx bool
}

// Create persiste un usuario. ID o email repetidos devuelven domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("%w: usuario %s ya existe", domain.ErrConflict, user.ID)
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email %s ya registrado", domain.ErrConflict, user.Email)
		}
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID devuelve el usuario o (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	return cloneUser(r.s.users[id]), nil
}

// GetByEmail busca sin distinguir mayúsculas; (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// Update reemplaza el usuario existente.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// List devuelve los usuarios ordenados por ID.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	defer r.s.lock(r.inTx)()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
