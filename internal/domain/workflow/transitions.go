package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// Outcome resultado de una transición aplicada.
type Outcome struct {
	RequestID         string
	Action            Action
	Stage             entity.Stage // etapa que firmó (solo aprobaciones)
	From              entity.Status
	To                entity.Status
	SignatureEnrolled bool // la firma del aprobador se guardó en su perfil
}

// ApproveInput datos que aporta el aprobador.
// Si Signature está vacío se usa la firma almacenada del usuario.
type ApproveInput struct {
	Signature string
	Comments  string
}

// ValidateNew comprueba que requester pueda crear una solicitud con esos datos.
// Devuelve la firma efectiva (la aportada o la almacenada) y los detalles normalizados.
func ValidateNew(requester *entity.User, details entity.RequestDetails, signature string) (string, entity.RequestDetails, error) {
	if requester == nil {
		return "", details, domain.ErrInvalidInput
	}
	if requester.Role != entity.RoleRequester {
		return "", details, domain.ErrUnauthorized
	}
	if signature == "" {
		signature = requester.Signature
	}
	if signature == "" {
		return "", details, domain.ErrMissingSignature
	}
	if strings.TrimSpace(details.EmployeeCode) == "" || strings.TrimSpace(details.FullName) == "" {
		return "", details, fmt.Errorf("%w: código de empleado y nombre completo son obligatorios", domain.ErrInvalidInput)
	}
	switch details.Priority {
	case "":
		details.Priority = entity.PriorityMedium
	case entity.PriorityHigh, entity.PriorityMedium, entity.PriorityLow:
	default:
		return "", details, fmt.Errorf("%w: prioridad %q desconocida", domain.ErrInvalidInput, details.Priority)
	}
	return signature, details, nil
}

// NewRequest construye una solicitud nueva en estado inicial con la firma del solicitante.
func NewRequest(id string, requester *entity.User, details entity.RequestDetails, signature string, now time.Time) (*entity.AccessRequest, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	signature, details, err := ValidateNew(requester, details, signature)
	if err != nil {
		return nil, err
	}
	return &entity.AccessRequest{
		ID:            id,
		RequesterID:   requester.ID,
		RequesterName: requester.Name,
		Details:       details,
		CreatedDate:   entity.Day(now),
		Status:        InitialStatus,
		Signatures:    map[entity.Stage]string{entity.StageRequester: signature},
		Approvals:     map[entity.Stage]entity.Approval{},
		UpdatedAt:     now,
	}, nil
}

// Approve firma y aprueba la etapa del actor, avanzando la solicitud un paso.
// Si la firma usada difiere de la almacenada en el perfil del actor, el perfil se actualiza.
// Ante cualquier precondición incumplida no modifica nada.
func Approve(req *entity.AccessRequest, actor *entity.User, in ApproveInput, now time.Time) (Outcome, error) {
	if req == nil || actor == nil {
		return Outcome{}, domain.ErrInvalidInput
	}
	if err := authorize(actor.Role, ActionApprove, req.Status); err != nil {
		return Outcome{}, err
	}
	rule, _ := ruleForRole(actor.Role)
	if req.Approved(rule.stage) || req.Signed(rule.stage) {
		// registro ya presente con la solicitud aún en la etapa: dato anómalo, no se pisa
		return Outcome{}, domain.ErrInvalidTransition
	}
	signature := in.Signature
	if signature == "" {
		signature = actor.Signature
	}
	if signature == "" {
		return Outcome{}, domain.ErrMissingSignature
	}

	if req.Signatures == nil {
		req.Signatures = map[entity.Stage]string{}
	}
	if req.Approvals == nil {
		req.Approvals = map[entity.Stage]entity.Approval{}
	}
	out := Outcome{RequestID: req.ID, Action: ActionApprove, Stage: rule.stage, From: req.Status, To: rule.next}
	req.Signatures[rule.stage] = signature
	req.Approvals[rule.stage] = entity.Approval{
		Date:         entity.Day(now),
		ApproverName: actor.Name,
		Comments:     strings.TrimSpace(in.Comments),
	}
	req.Status = rule.next
	req.UpdatedAt = now

	if signature != actor.Signature {
		actor.Signature = signature
		actor.UpdatedAt = now
		out.SignatureEnrolled = true
	}
	return out, nil
}

// Reject lleva la solicitud al estado terminal rechazado. Firmas y aprobaciones previas se conservan.
func Reject(req *entity.AccessRequest, actor *entity.User, now time.Time) (Outcome, error) {
	if req == nil || actor == nil {
		return Outcome{}, domain.ErrInvalidInput
	}
	if err := authorize(actor.Role, ActionReject, req.Status); err != nil {
		return Outcome{}, err
	}
	out := Outcome{RequestID: req.ID, Action: ActionReject, From: req.Status, To: entity.StatusRejected}
	req.Status = entity.StatusRejected
	req.UpdatedAt = now
	return out, nil
}

// Complete cierra la implementación registrando las credenciales emitidas.
// IssuedAt se fija a la fecha del día; debe venir al menos usuario o email.
func Complete(req *entity.AccessRequest, actor *entity.User, creds entity.Credentials, now time.Time) (Outcome, error) {
	if req == nil || actor == nil {
		return Outcome{}, domain.ErrInvalidInput
	}
	if err := authorize(actor.Role, ActionComplete, req.Status); err != nil {
		return Outcome{}, err
	}
	if strings.TrimSpace(creds.Username) == "" && strings.TrimSpace(creds.Email) == "" {
		return Outcome{}, fmt.Errorf("%w: se requiere usuario o email en las credenciales", domain.ErrInvalidInput)
	}
	creds.IssuedAt = entity.Day(now)
	out := Outcome{RequestID: req.ID, Action: ActionComplete, From: req.Status, To: entity.StatusCompleted}
	req.Credentials = &creds
	req.Status = entity.StatusCompleted
	req.UpdatedAt = now
	return out, nil
}

// Apply despacha la acción a su transición. Signature/comments solo aplican a approve
// y creds solo a complete.
func Apply(req *entity.AccessRequest, actor *entity.User, action Action, in ApproveInput, creds entity.Credentials, now time.Time) (Outcome, error) {
	switch action {
	case ActionApprove:
		return Approve(req, actor, in, now)
	case ActionReject:
		return Reject(req, actor, now)
	case ActionComplete:
		return Complete(req, actor, creds, now)
	}
	return Outcome{}, fmt.Errorf("%w: acción %q desconocida", domain.ErrInvalidInput, action)
}
