package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Accesos-api/internal/application/report"
)

const (
	mimePDF  = "application/pdf"
	mimeXML  = "application/xml"
	mimeZIP  = "application/zip"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler descargas de documentos derivados de las solicitudes.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// PDF godoc
// @Summary      Formulario de la solicitud en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	b, name, err := h.uc.DownloadPDF(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, mimePDF, false)
}

// ApprovalRecord godoc
// @Summary      Acta XML de aprobaciones con digest de integridad
// @Tags         reports
// @Produce      application/xml
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {file}    binary
// @Router       /api/requests/{id}/xml [get]
func (h *ReportHandler) ApprovalRecord(c *fiber.Ctx) error {
	b, name, err := h.uc.DownloadApprovalRecord(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, mimeXML, true)
}

// Bundle godoc
// @Summary      Expediente ZIP con el PDF y el acta XML
// @Tags         reports
// @Produce      application/zip
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/bundle [get]
func (h *ReportHandler) Bundle(c *fiber.Ctx) error {
	b, name, err := h.uc.DownloadBundle(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, mimeZIP, true)
}

// Export godoc
// @Summary      Exportar el listado visible a Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status  query  string  false  "estado exacto o all"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/requests/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	b, name, err := h.uc.ExportXLSX(c.Context(), GetUserID(c), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, mimeXLSX, true)
}

func sendFile(c *fiber.Ctx, b []byte, name, mime string, attachment bool) error {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`%s; filename="%s"`, disposition, name))
	return c.Send(b)
}
