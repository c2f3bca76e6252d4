package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/application/usecase"
)

// ProfileHandler perfil y firma del usuario autenticado.
type ProfileHandler struct {
	uc *usecase.UserUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.UserUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Actualizar datos descriptivos del perfil
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateProfileRequest  true  "campos vacíos no se modifican"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me [put]
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateProfile(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSignature godoc
// @Summary      Firma almacenada del usuario
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SignatureResponse
// @Router       /api/me/signature [get]
func (h *ProfileHandler) GetSignature(c *fiber.Ctx) error {
	out, err := h.uc.GetSignature(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSignature godoc
// @Summary      Reemplazar la firma almacenada
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateSignatureRequest  true  "data URL de la imagen"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/me/signature [put]
func (h *ProfileHandler) UpdateSignature(c *fiber.Ctx) error {
	var in dto.UpdateSignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validateBody(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateSignature(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CatalogHandler catálogos del formulario.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// GetAll godoc
// @Summary      Catálogos del formulario (sedes, cargos, áreas, estados...)
// @Tags         catalogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CatalogsResponse
// @Router       /api/catalogs [get]
func (h *CatalogHandler) GetAll(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetAll())
}
