// Package seed contiene los datos de demostración: los cinco usuarios del flujo
// (uno por rol) y una solicitud inicial pendiente de Talento Humano.
package seed

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// DefaultPassword contraseña de los usuarios de demostración.
const DefaultPassword = "123456"

// PixelSignature firma PNG 1x1 usada por la solicitud de ejemplo.
const PixelSignature = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type userSeed struct {
	id, email, name string
	role            entity.Role
	department      string
	position        string
	phone           string
}

var users = []userSeed{
	{"1", "juan.perez@empresa.com", "Juan Pérez", entity.RoleRequester, "Desarrollo", "Desarrollador Senior", "+1234567890"},
	{"2", "maria.garcia@empresa.com", "María García", entity.RoleHR, "Recursos Humanos", "Analista de TH", "+1234567891"},
	{"3", "carlos.lopez@empresa.com", "Carlos López", entity.RoleHRManagement, "Recursos Humanos", "Gerente de Talento Humano", "+1234567892"},
	{"4", "ana.martinez@empresa.com", "Ana Martínez", entity.RoleIT, "Tecnología", "Analista de TI", "+1234567893"},
	{"5", "luis.rodriguez@empresa.com", "Luis Rodríguez", entity.RoleITManagement, "Tecnología", "Gerente de TI", "+1234567894"},
}

// Users construye los usuarios de demostración con password hasheado (bcrypt, cost dado).
// cost <= 0 usa bcrypt.DefaultCost.
func Users(password string, cost int, now time.Time) ([]*entity.User, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, &entity.User{
			ID:           u.id,
			Email:        u.email,
			PasswordHash: string(hash),
			Name:         u.name,
			Role:         u.role,
			Department:   u.department,
			Position:     u.position,
			Phone:        u.phone,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out, nil
}

// Requests solicitudes de demostración (REQ-001 pendiente de Talento Humano).
func Requests(now time.Time) []*entity.AccessRequest {
	return []*entity.AccessRequest{
		{
			ID:            "REQ-001",
			RequesterID:   "1",
			RequesterName: "Juan Pérez",
			Details: entity.RequestDetails{
				EmployeeCode:     "4493",
				FullName:         "Juan Pérez García",
				Department:       "Tecnología de la Información",
				Branches:         []string{"Sucursal Central", "Sucursal Norte"},
				Positions:        []string{"Desarrollador Senior"},
				Areas:            []string{"Tecnología de la Información"},
				ContractModality: entity.ContractPayroll,
				UserAction:       entity.UserActionNew,
				SAP:              entity.SAPAccess{User: true},
				Systems:          entity.SystemsAccess{Ecommerce: true},
				Network:          entity.NetworkAccess{PhoneExtension: true, Email: true, Internet: true},
				Observations:     entity.Observations{General: "Usuario nuevo en el departamento de TI"},
				RequestType:      "acceso-sistemas",
				Justification:    "Nuevo empleado requiere accesos para desarrollo",
				Details:          "Acceso completo para desarrollo de aplicaciones",
				Priority:         entity.PriorityHigh,
				RequiredDate:     "2024-01-20",
			},
			CreatedDate: "2024-01-15",
			Status:      entity.StatusPendingHR,
			Signatures:  map[entity.Stage]string{entity.StageRequester: PixelSignature},
			Approvals:   map[entity.Stage]entity.Approval{},
			UpdatedAt:   now,
		},
	}
}
