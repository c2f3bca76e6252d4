package entity

import "time"

// Status estado del ciclo de vida de una solicitud de accesos.
type Status string

// Estados de la solicitud. El orden del pipeline es el de declaración;
// StatusRejected es absorbente y solo se alcanza desde un estado pending-*.
const (
	StatusPendingHR           Status = "pending-hr"
	StatusPendingHRManagement Status = "pending-hr-management"
	StatusPendingIT           Status = "pending-it"
	StatusPendingITManagement Status = "pending-it-management"
	StatusInImplementation    Status = "in-implementation"
	StatusCompleted           Status = "completed"
	StatusRejected            Status = "rejected"
)

// StatusFilterAll valor centinela del filtro por estado: sin filtrar.
const StatusFilterAll = "all"

// Statuses devuelve todos los estados en orden de pipeline (rechazado al final).
func Statuses() []Status {
	return []Status{
		StatusPendingHR, StatusPendingHRManagement, StatusPendingIT, StatusPendingITManagement,
		StatusInImplementation, StatusCompleted, StatusRejected,
	}
}

// Valid informa si el estado es uno de los siete conocidos.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal informa si el estado ya no admite transiciones.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// DisplayName nombre legible del estado.
func (s Status) DisplayName() string {
	switch s {
	case StatusPendingHR:
		return "Pendiente Talento Humano"
	case StatusPendingHRManagement:
		return "Pendiente Gerencia TH"
	case StatusPendingIT:
		return "Pendiente Tecnología"
	case StatusPendingITManagement:
		return "Pendiente Gerencia TI"
	case StatusInImplementation:
		return "En implementación"
	case StatusCompleted:
		return "Completado"
	case StatusRejected:
		return "Rechazado"
	}
	return string(s)
}

// Stage etapa que firma una solicitud. Las cuatro etapas aprobadoras
// comparten nombre con el rol que las atiende.
type Stage string

// Etapas de firma.
const (
	StageRequester    Stage = "requester"
	StageHR           Stage = "hr"
	StageHRManagement Stage = "hr-management"
	StageIT           Stage = "it"
	StageITManagement Stage = "it-management"
)

// ApproverStages etapas aprobadoras en orden de pipeline (sin el solicitante).
func ApproverStages() []Stage {
	return []Stage{StageHR, StageHRManagement, StageIT, StageITManagement}
}

// Priority prioridad declarada por el solicitante.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Modalidades de contratación.
const (
	ContractPayroll   = "payroll"
	ContractFees      = "fees"
	ContractPiecework = "piecework"
	ContractSpecific  = "specific"
	ContractGeneric   = "generic"
)

// Tipos de acción sobre el usuario.
const (
	UserActionNew        = "new"
	UserActionModify     = "modify"
	UserActionDeactivate = "deactivate"
)

// Approval registro de aprobación de una etapa. Date tiene granularidad de día (YYYY-MM-DD).
type Approval struct {
	Date         string `json:"date"`
	ApproverName string `json:"approver_name"`
	Comments     string `json:"comments,omitempty"`
}

// Credentials cuentas emitidas al completar la implementación.
type Credentials struct {
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	NetworkUser string `json:"network_user,omitempty"`
	AppUser     string `json:"app_user,omitempty"`
	IssuedAt    string `json:"issued_at"` // YYYY-MM-DD
}

// SAPAccess accesos solicitados en SAP.
type SAPAccess struct {
	User            bool   `json:"user"`
	AllCompanies    bool   `json:"all_companies"`
	Code            string `json:"code,omitempty"`
	WarehouseKeeper bool   `json:"warehouse_keeper"`
	WarehouseNumber string `json:"warehouse_number,omitempty"`
}

// SystemsAccess accesos a sistemas internos.
type SystemsAccess struct {
	HIS             bool   `json:"his"`
	CashRegister    string `json:"cash_register,omitempty"`
	Ecommerce       bool   `json:"ecommerce"`
	HTIS            bool   `json:"htis"`
	DocumentManager bool   `json:"document_manager"`
	SalesSystem     bool   `json:"sales_system"`
}

// NetworkAccess red y comunicaciones.
type NetworkAccess struct {
	PhoneExtension bool   `json:"phone_extension"`
	Email          bool   `json:"email"`
	Internet       bool   `json:"internet"`
	SocialMedia    bool   `json:"social_media"`
	YouTube        bool   `json:"youtube"`
	WebPages       string `json:"web_pages,omitempty"`
}

// Observations observaciones libres por subsistema.
type Observations struct {
	SAP             string `json:"sap,omitempty"`
	HIS             string `json:"his,omitempty"`
	Ecommerce       string `json:"ecommerce,omitempty"`
	HTIS            string `json:"htis,omitempty"`
	DocumentManager string `json:"document_manager,omitempty"`
	SalesSystem     string `json:"sales_system,omitempty"`
	Network         string `json:"network,omitempty"`
	General         string `json:"general,omitempty"`
}

// RequestDetails carga descriptiva del formulario. El núcleo no la interpreta.
type RequestDetails struct {
	EmployeeCode     string        `json:"employee_code"`
	FullName         string        `json:"full_name"`
	Department       string        `json:"department"`
	Branches         []string      `json:"branches"`
	Positions        []string      `json:"positions"`
	Areas            []string      `json:"areas"`
	ContractModality string        `json:"contract_modality"`
	UserAction       string        `json:"user_action"`
	ReplacesUser     string        `json:"replaces_user,omitempty"`
	SAP              SAPAccess     `json:"sap"`
	Systems          SystemsAccess `json:"systems"`
	Network          NetworkAccess `json:"network"`
	Observations     Observations  `json:"observations"`
	RequestType      string        `json:"request_type"`
	Justification    string        `json:"justification"`
	Details          string        `json:"details,omitempty"`
	Priority         Priority      `json:"priority"`
	RequiredDate     string        `json:"required_date"` // YYYY-MM-DD
}

// AccessRequest solicitud de accesos. Status es la única fuente de verdad sobre
// la posición en el pipeline; solo el paquete workflow lo modifica.
type AccessRequest struct {
	ID            string
	RequesterID   string
	RequesterName string
	Details       RequestDetails
	CreatedDate   string // YYYY-MM-DD
	Status        Status
	Signatures    map[Stage]string
	Approvals     map[Stage]Approval
	Credentials   *Credentials
	UpdatedAt     time.Time
}

// Signed informa si la etapa ya firmó.
func (r *AccessRequest) Signed(stage Stage) bool {
	_, ok := r.Signatures[stage]
	return ok
}

// Approved informa si la etapa ya registró su aprobación.
func (r *AccessRequest) Approved(stage Stage) bool {
	_, ok := r.Approvals[stage]
	return ok
}

// Clone devuelve una copia profunda (mapas, slices y credenciales incluidos).
func (r *AccessRequest) Clone() *AccessRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Details.Branches = append([]string(nil), r.Details.Branches...)
	c.Details.Positions = append([]string(nil), r.Details.Positions...)
	c.Details.Areas = append([]string(nil), r.Details.Areas...)
	c.Signatures = make(map[Stage]string, len(r.Signatures))
	for k, v := range r.Signatures {
		c.Signatures[k] = v
	}
	c.Approvals = make(map[Stage]Approval, len(r.Approvals))
	for k, v := range r.Approvals {
		c.Approvals[k] = v
	}
	if r.Credentials != nil {
		creds := *r.Credentials
		c.Credentials = &creds
	}
	return &c
}

// DayFormat formato de fecha con granularidad de día usado en aprobaciones y credenciales.
const DayFormat = "2006-01-02"

// Day devuelve la fecha calendario de t (sin hora).
func Day(t time.Time) string {
	return t.Format(DayFormat)
}
