package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Accesos-api/internal/application/approval"
	"github.com/jhoicas/Accesos-api/internal/application/dto"
)

// RequestHandler ciclo de vida de las solicitudes de acceso.
type RequestHandler struct {
	uc *approval.UseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *approval.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// List godoc
// @Summary      Listar solicitudes visibles para el usuario
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "estado exacto o all"
// @Success      200  {object}  dto.AccessRequestListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear solicitud (solo solicitantes)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAccessRequest  true  "datos del formulario y firma"
// @Success      201   {object}  dto.AccessRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAccessRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Detalle de una solicitud
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID (REQ-001)"
// @Success      200  {object}  dto.AccessRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Actions godoc
// @Summary      Acciones disponibles para el usuario sobre la solicitud
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ActionsResponse
// @Router       /api/requests/{id}/actions [get]
func (h *RequestHandler) Actions(c *fiber.Ctx) error {
	out, err := h.uc.Actions(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar la etapa actual
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.ApproveRequest  false "firma (opcional si está almacenada) y comentarios"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Approve(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar la solicitud en la etapa actual
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	out, err := h.uc.Reject(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar la implementación y registrar credenciales (TI)
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.CompleteRequest  false "credenciales; vacías = sugeridas"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/complete [post]
func (h *RequestHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Complete(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
