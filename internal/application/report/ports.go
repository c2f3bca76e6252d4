package report

import (
	"context"

	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// RequestPDFGenerator genera el formato imprimible de una solicitud con sus firmas.
type RequestPDFGenerator interface {
	GenerateRequestPDF(ctx context.Context, req *entity.AccessRequest) ([]byte, error)
}

// ApprovalRecordBuilder construye el acta XML de aprobaciones de una solicitud,
// canonicalizada y con su digest.
type ApprovalRecordBuilder interface {
	BuildApprovalRecord(ctx context.Context, req *entity.AccessRequest) ([]byte, error)
}

// SpreadsheetExporter exporta un listado de solicitudes a hoja de cálculo.
type SpreadsheetExporter interface {
	ExportRequests(ctx context.Context, reqs []*entity.AccessRequest) ([]byte, error)
}

// File documento con nombre para empaquetar.
type File struct {
	Name    string
	Content []byte
}

// Archiver empaqueta varios documentos en un solo archivo descargable.
type Archiver interface {
	Bundle(ctx context.Context, files []File) ([]byte, error)
}
