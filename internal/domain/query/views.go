// Package query deriva vistas de solo lectura sobre la colección de solicitudes:
// listado visible por rol, filtro por estado y estadísticas del dashboard.
// Nunca modifica las solicitudes que recibe.
package query

import (
	"sort"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
)

// Stats contadores del dashboard para un rol.
type Stats struct {
	Total     int
	Pending   int
	Approved  int
	Completed int
	Rejected  int
}

// Visible informa si el rol (y el usuario, para el solicitante) puede ver la solicitud.
// Un aprobador ve lo que espera su acción y todo lo que ya aprobó.
func Visible(role entity.Role, userID string, req *entity.AccessRequest) bool {
	if req == nil {
		return false
	}
	if role == entity.RoleRequester {
		return userID != "" && req.RequesterID == userID
	}
	stage, ok := workflow.StageOf(role)
	if !ok {
		return false
	}
	return IsPendingFor(role, req) || req.Approved(stage)
}

// IsPendingFor informa si la solicitud espera una acción del rol.
func IsPendingFor(role entity.Role, req *entity.AccessRequest) bool {
	return role != entity.RoleRequester && workflow.CanAct(role, req.Status)
}

// IsApprovedBy informa si el rol aprobó y la solicitud ya salió de su paso.
func IsApprovedBy(role entity.Role, req *entity.AccessRequest) bool {
	stage, ok := workflow.StageOf(role)
	if !ok {
		return false
	}
	return req.Approved(stage) && !IsPendingFor(role, req)
}

// Scoped devuelve las solicitudes visibles para el rol, ordenadas por ID.
func Scoped(all []*entity.AccessRequest, role entity.Role, userID string) []*entity.AccessRequest {
	out := make([]*entity.AccessRequest, 0, len(all))
	for _, r := range all {
		if Visible(role, userID, r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out
}

// ByStatus aplica el filtro exacto por estado sobre el listado visible.
// El valor "all" (o vacío) devuelve el listado visible completo.
func ByStatus(all []*entity.AccessRequest, role entity.Role, userID, filter string) []*entity.AccessRequest {
	scoped := Scoped(all, role, userID)
	if filter == "" || filter == entity.StatusFilterAll {
		return scoped
	}
	out := make([]*entity.AccessRequest, 0, len(scoped))
	for _, r := range scoped {
		if string(r.Status) == filter {
			out = append(out, r)
		}
	}
	return out
}

// ComputeStats calcula los contadores sobre el listado visible del rol.
func ComputeStats(all []*entity.AccessRequest, role entity.Role, userID string) Stats {
	scoped := Scoped(all, role, userID)
	st := Stats{Total: len(scoped)}
	for _, r := range scoped {
		if IsPendingFor(role, r) {
			st.Pending++
		}
		if IsApprovedBy(role, r) {
			st.Approved++
		}
		switch r.Status {
		case entity.StatusCompleted:
			st.Completed++
		case entity.StatusRejected:
			st.Rejected++
		}
	}
	return st
}

// lessID ordena REQ-009 antes que REQ-010 y REQ-999 antes que REQ-1000.
func lessID(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
