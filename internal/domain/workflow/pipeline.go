// Package workflow contiene la máquina de estados de una solicitud de accesos y
// la compuerta de autorización por rol.
//
// Toda la lógica sale de una sola tabla (pipeline): qué etapa atiende cada rol,
// qué estado espera esa etapa y a qué estado avanza la solicitud cuando aprueba.
// La compuerta (CanAct/CanPerform) y las transiciones (Approve/Reject/Complete)
// consultan la misma tabla, así no pueden discrepar.
package workflow

import (
	"fmt"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// stageRule fila de la tabla del pipeline.
type stageRule struct {
	stage    entity.Stage
	role     entity.Role
	awaiting entity.Status // estado en el que la etapa puede aprobar o rechazar
	next     entity.Status // estado tras aprobar
}

var pipeline = [...]stageRule{
	{stage: entity.StageHR, role: entity.RoleHR, awaiting: entity.StatusPendingHR, next: entity.StatusPendingHRManagement},
	{stage: entity.StageHRManagement, role: entity.RoleHRManagement, awaiting: entity.StatusPendingHRManagement, next: entity.StatusPendingIT},
	{stage: entity.StageIT, role: entity.RoleIT, awaiting: entity.StatusPendingIT, next: entity.StatusPendingITManagement},
	{stage: entity.StageITManagement, role: entity.RoleITManagement, awaiting: entity.StatusPendingITManagement, next: entity.StatusInImplementation},
}

// La implementación la cierra Tecnología.
const (
	completionRole   = entity.RoleIT
	completionSource = entity.StatusInImplementation
)

// InitialStatus estado con el que nace toda solicitud.
const InitialStatus = entity.StatusPendingHR

func ruleForRole(role entity.Role) (stageRule, bool) {
	for _, r := range pipeline {
		if r.role == role {
			return r, true
		}
	}
	return stageRule{}, false
}

func ruleForStatus(status entity.Status) (stageRule, int, bool) {
	for i, r := range pipeline {
		if r.awaiting == status {
			return r, i, true
		}
	}
	return stageRule{}, -1, false
}

// StageOf devuelve la etapa aprobadora que atiende el rol (false para el solicitante).
func StageOf(role entity.Role) (entity.Stage, bool) {
	r, ok := ruleForRole(role)
	return r.stage, ok
}

// AwaitingStage devuelve la etapa cuya acción espera la solicitud en ese estado.
func AwaitingStage(status entity.Status) (entity.Stage, bool) {
	r, _, ok := ruleForStatus(status)
	return r.stage, ok
}

// IsPending informa si el estado es uno de los pending-*.
func IsPending(status entity.Status) bool {
	_, _, ok := ruleForStatus(status)
	return ok
}

// NextStatus estado siguiente del pipeline tras la aprobación (o completado tras la implementación).
func NextStatus(status entity.Status) (entity.Status, bool) {
	if status == completionSource {
		return entity.StatusCompleted, true
	}
	r, _, ok := ruleForStatus(status)
	return r.next, ok
}

// Rank posición del estado en el pipeline; rejected devuelve -1.
func Rank(status entity.Status) int {
	switch status {
	case entity.StatusInImplementation:
		return len(pipeline)
	case entity.StatusCompleted:
		return len(pipeline) + 1
	}
	if _, i, ok := ruleForStatus(status); ok {
		return i
	}
	return -1
}

// FormatRequestID genera el identificador visible de la solicitud (REQ-001, REQ-002, ...).
func FormatRequestID(seq int64) string {
	return fmt.Sprintf("REQ-%03d", seq)
}
