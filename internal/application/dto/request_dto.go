package dto

import (
	"time"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// CreateAccessRequest entrada de POST /api/requests.
// Si Signature está vacío se usa la firma almacenada del solicitante.
type CreateAccessRequest struct {
	Details   entity.RequestDetails `json:"details"`
	Signature string                `json:"signature"`
}

// ApproveRequest entrada de POST /api/requests/:id/approve.
// Si Signature está vacío se usa la firma almacenada del aprobador.
type ApproveRequest struct {
	Signature string `json:"signature"`
	Comments  string `json:"comments" validate:"omitempty,max=2000"`
}

// CompleteRequest credenciales emitidas por TI. Los campos vacíos se completan
// con la sugerencia derivada del nombre del solicitante.
type CompleteRequest struct {
	Email       string `json:"email" validate:"omitempty,email,max=200"`
	Username    string `json:"username" validate:"omitempty,max=100"`
	NetworkUser string `json:"network_user" validate:"omitempty,max=100"`
	AppUser     string `json:"app_user" validate:"omitempty,max=100"`
}

// AccessRequestResponse detalle completo de una solicitud.
type AccessRequestResponse struct {
	ID            string                     `json:"id"`
	RequesterID   string                     `json:"requester_id"`
	RequesterName string                     `json:"requester_name"`
	Details       entity.RequestDetails      `json:"details"`
	CreatedDate   string                     `json:"created_date"`
	Status        string                     `json:"status"`
	StatusLabel   string                     `json:"status_label"`
	Signatures    map[string]string          `json:"signatures"`
	Approvals     map[string]entity.Approval `json:"approvals"`
	Credentials   *entity.Credentials        `json:"credentials,omitempty"`
	Actions       []string                   `json:"actions"` // acciones del usuario actual
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// AccessRequestSummary fila del listado (sin firmas).
type AccessRequestSummary struct {
	ID            string   `json:"id"`
	RequesterName string   `json:"requester_name"`
	FullName      string   `json:"full_name"`
	EmployeeCode  string   `json:"employee_code"`
	RequestType   string   `json:"request_type"`
	Priority      string   `json:"priority"`
	RequiredDate  string   `json:"required_date"`
	CreatedDate   string   `json:"created_date"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"status_label"`
	Actions       []string `json:"actions"`
}

// AccessRequestListResponse salida de GET /api/requests.
type AccessRequestListResponse struct {
	Items  []AccessRequestSummary `json:"items"`
	Total  int                    `json:"total"`
	Status string                 `json:"status"` // filtro aplicado
}

// ActionsResponse acciones disponibles para el usuario actual sobre una solicitud.
type ActionsResponse struct {
	RequestID string   `json:"request_id"`
	Status    string   `json:"status"`
	CanAct    bool     `json:"can_act"`
	Actions   []string `json:"actions"`

	// SuggestedCredentials sugerencia de cuentas cuando la acción disponible es completar.
	SuggestedCredentials *entity.Credentials `json:"suggested_credentials,omitempty"`
}

// TransitionResponse resultado de aprobar, rechazar o completar.
type TransitionResponse struct {
	Request           AccessRequestResponse `json:"request"`
	Action            string                `json:"action"`
	From              string                `json:"from"`
	To                string                `json:"to"`
	SignatureEnrolled bool                  `json:"signature_enrolled"`
}
