package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Los contadores se calculan sobre el alcance visible del usuario.
type DashboardStatsDTO struct {
	Role      string `json:"role"`
	RoleLabel string `json:"role_label"`

	Total     int `json:"total"`
	Pending   int `json:"pending"`  // esperan una acción del rol
	Approved  int `json:"approved"` // el rol ya aprobó y la solicitud avanzó
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`

	// CompletionRate porcentaje de completadas sobre el total visible, con dos decimales.
	CompletionRate decimal.Decimal `json:"completion_rate"`
}

// BacklogEntryDTO solicitudes en espera en un estado no terminal.
type BacklogEntryDTO struct {
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	Waiting     int    `json:"waiting"`
	Overdue     int    `json:"overdue"` // fecha requerida vencida
}
