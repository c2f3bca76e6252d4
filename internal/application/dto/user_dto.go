package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RoleLabel    string    `json:"role_label"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	Phone        string    `json:"phone,omitempty"`
	HasSignature bool      `json:"has_signature"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileRequest datos editables del perfil. Los campos vacíos no se modifican.
type UpdateProfileRequest struct {
	Name       string `json:"name" validate:"omitempty,max=200"`
	Department string `json:"department" validate:"omitempty,max=200"`
	Position   string `json:"position" validate:"omitempty,max=200"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateSignatureRequest nueva firma del usuario (data URL PNG).
type UpdateSignatureRequest struct {
	Signature string `json:"signature" validate:"required,startswith=data:image/"`
}

// SignatureResponse firma almacenada del usuario.
type SignatureResponse struct {
	Signature string `json:"signature"`
}

// CatalogsResponse catálogos del formulario de solicitud.
type CatalogsResponse struct {
	Branches           []string          `json:"branches"`
	Positions          []string          `json:"positions"`
	Areas              []string          `json:"areas"`
	ContractModalities map[string]string `json:"contract_modalities"`
	UserActions        map[string]string `json:"user_actions"`
	Priorities         map[string]string `json:"priorities"`
	Statuses           map[string]string `json:"statuses"`
	Roles              map[string]string `json:"roles"`
}
