package workflow

import (
	"fmt"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// CheckInvariants verifica la coherencia entre estado, firmas, aprobaciones y credenciales.
// Los repositorios la usan antes de persistir.
func CheckInvariants(req *entity.AccessRequest) error {
	if req == nil {
		return domain.ErrInvalidInput
	}
	if !req.Status.Valid() {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrConflict, req.Status)
	}
	if !req.Signed(entity.StageRequester) {
		return fmt.Errorf("%w: %s sin firma del solicitante", domain.ErrConflict, req.ID)
	}
	approved := 0
	gap := false
	for _, stage := range entity.ApproverStages() {
		if req.Approved(stage) != req.Signed(stage) {
			return fmt.Errorf("%w: %s firma y aprobación de %s no coinciden", domain.ErrConflict, req.ID, stage)
		}
		switch {
		case req.Approved(stage) && gap:
			return fmt.Errorf("%w: %s tiene aprobación de %s sin las etapas previas", domain.ErrConflict, req.ID, stage)
		case req.Approved(stage):
			approved++
		default:
			gap = true
		}
	}
	switch {
	case IsPending(req.Status):
		if want := Rank(req.Status); approved != want {
			return fmt.Errorf("%w: %s en %s con %d aprobaciones", domain.ErrConflict, req.ID, req.Status, approved)
		}
	case req.Status == entity.StatusInImplementation || req.Status == entity.StatusCompleted:
		if approved != len(pipeline) {
			return fmt.Errorf("%w: %s en %s con %d aprobaciones", domain.ErrConflict, req.ID, req.Status, approved)
		}
	}
	if (req.Credentials != nil) != (req.Status == entity.StatusCompleted) {
		return fmt.Errorf("%w: %s credenciales inconsistentes con el estado %s", domain.ErrConflict, req.ID, req.Status)
	}
	return nil
}
