// Package memory implementa los puertos de persistencia en memoria de proceso.
// Una transacción toma el candado global del store y restaura el estado previo si falla.
package memory

import (
	"strconv"
	"strings"
	"sync"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu       sync.Mutex
	requests map[string]*entity.AccessRequest
	users    map[string]*entity.User
	seq      int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		requests: map[string]*entity.AccessRequest{},
		users:    map[string]*entity.User{},
	}
}

// Load reemplaza el contenido del store y ajusta la secuencia al mayor ID numérico cargado.
func (s *Store) Load(users []*entity.User, requests []*entity.AccessRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*entity.User, len(users))
	for _, u := range users {
		s.users[u.ID] = cloneUser(u)
	}
	s.requests = make(map[string]*entity.AccessRequest, len(requests))
	s.seq = 0
	for _, r := range requests {
		s.requests[r.ID] = r.Clone()
		if n := sequenceOf(r.ID); n > s.seq {
			s.seq = n
		}
	}
}

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() *AccessRequestRepo { return &AccessRequestRepo{s: s} }

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// lock toma el candado salvo que el repositorio ya corra dentro de una transacción.
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// sequenceOf extrae el número de un ID "REQ-NNN" (0 si no tiene ese formato).
func sequenceOf(id string) int64 {
	n, err := strconv.ParseInt(strings.TrimPrefix(id, "REQ-"), 10, 64)
	if err != nil || !strings.HasPrefix(id, "REQ-") {
		return 0
	}
	return n
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
