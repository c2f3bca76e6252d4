package entity

import "time"

// Role rol funcional de un usuario dentro del flujo de aprobación.
type Role string

// Roles válidos para User. El conjunto es fijo.
const (
	RoleRequester    Role = "requester"
	RoleHR           Role = "hr"
	RoleHRManagement Role = "hr-management"
	RoleIT           Role = "it"
	RoleITManagement Role = "it-management"
)

// Roles devuelve los cinco roles en orden de aparición en el flujo.
func Roles() []Role {
	return []Role{RoleRequester, RoleHR, RoleHRManagement, RoleIT, RoleITManagement}
}

// Valid informa si el rol pertenece al conjunto fijo.
func (r Role) Valid() bool {
	switch r {
	case RoleRequester, RoleHR, RoleHRManagement, RoleIT, RoleITManagement:
		return true
	}
	return false
}

// DisplayName nombre legible del rol (usado en reportes).
func (r Role) DisplayName() string {
	switch r {
	case RoleRequester:
		return "Solicitante"
	case RoleHR:
		return "Talento Humano"
	case RoleHRManagement:
		return "Gerencia de Talento Humano"
	case RoleIT:
		return "Tecnología de la Información"
	case RoleITManagement:
		return "Gerencia de Tecnología de la Información"
	}
	return string(r)
}

// User representa una persona que solicita o aprueba solicitudes de acceso.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt; solo lo usa el login
	Name         string
	Role         Role
	Department   string
	Position     string
	Phone        string
	Signature    string // firma digital almacenada (blob opaco, p. ej. data URL PNG); vacío = sin firma
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasSignature informa si el usuario ya tiene una firma registrada.
func (u *User) HasSignature() bool {
	return u != nil && u.Signature != ""
}
