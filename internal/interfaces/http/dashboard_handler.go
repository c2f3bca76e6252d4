package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Accesos-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats godoc
// @Summary      Estadísticas del tablero para el rol del usuario
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// GetBacklog godoc
// @Summary      Solicitudes en espera por estado (vencidas incluidas)
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.BacklogEntryDTO
// @Router       /api/dashboard/backlog [get]
//
// Solo para aprobadores; el solicitante no ve solicitudes ajenas.
func (h *DashboardHandler) GetBacklog(c *fiber.Ctx) error {
	backlog, err := h.uc.GetBacklog(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(backlog)
}
