package workflow

import (
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// Action acción que un rol puede ejecutar sobre una solicitud.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
)

var allActions = [...]Action{ActionApprove, ActionReject, ActionComplete}

// CanPerform decide si el rol puede ejecutar la acción con la solicitud en ese estado.
// Es una consulta pura sobre la tabla del pipeline.
func CanPerform(role entity.Role, action Action, status entity.Status) bool {
	switch action {
	case ActionApprove, ActionReject:
		r, ok := ruleForRole(role)
		return ok && r.awaiting == status
	case ActionComplete:
		return role == completionRole && status == completionSource
	}
	return false
}

// CanAct informa si el rol tiene alguna acción disponible con la solicitud en ese estado.
func CanAct(role entity.Role, status entity.Status) bool {
	for _, a := range allActions {
		if CanPerform(role, a, status) {
			return true
		}
	}
	return false
}

// Actions lista las acciones que el rol puede ejecutar ahora (vacío si ninguna).
func Actions(role entity.Role, status entity.Status) []Action {
	out := make([]Action, 0, 2)
	for _, a := range allActions {
		if CanPerform(role, a, status) {
			out = append(out, a)
		}
	}
	return out
}

// ActionableStatuses estados en los que el rol tiene algo que hacer.
func ActionableStatuses(role entity.Role) []entity.Status {
	var out []entity.Status
	for _, s := range entity.Statuses() {
		if CanAct(role, s) {
			out = append(out, s)
		}
	}
	return out
}

// everAllowed informa si el rol podría ejecutar la acción en algún estado.
func everAllowed(role entity.Role, action Action) bool {
	switch action {
	case ActionApprove, ActionReject:
		_, ok := ruleForRole(role)
		return ok
	case ActionComplete:
		return role == completionRole
	}
	return false
}

// authorize aplica la compuerta dentro de una transición.
// ErrUnauthorized: el rol nunca puede ejecutar la acción.
// ErrInvalidTransition: podría, pero no con el estado actual.
func authorize(role entity.Role, action Action, status entity.Status) error {
	if !everAllowed(role, action) {
		return domain.ErrUnauthorized
	}
	if !CanPerform(role, action, status) {
		return domain.ErrInvalidTransition
	}
	return nil
}
