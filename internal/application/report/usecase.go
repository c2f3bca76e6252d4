// Package report contiene los casos de uso de documentos derivados de las solicitudes:
// formato PDF, acta XML de aprobaciones y exportación del listado a Excel.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/query"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

// UseCase genera documentos respetando el alcance visible de cada usuario.
type UseCase struct {
	requestRepo repository.AccessRequestRepository
	userRepo    repository.UserRepository
	pdf         RequestPDFGenerator
	record      ApprovalRecordBuilder
	sheet       SpreadsheetExporter
	archiver    Archiver
	now         func() time.Time
}

// NewUseCase construye el caso de uso inyectando todas sus dependencias.
func NewUseCase(
	requestRepo repository.AccessRequestRepository,
	userRepo repository.UserRepository,
	pdf RequestPDFGenerator,
	record ApprovalRecordBuilder,
	sheet SpreadsheetExporter,
	archiver Archiver,
) *UseCase {
	return &UseCase{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		pdf:         pdf,
		record:      record,
		sheet:       sheet,
		archiver:    archiver,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj usado para nombrar las exportaciones.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// DownloadPDF genera el formato PDF de la solicitud.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - domain.ErrRequestNotFound   si la solicitud no existe.
//   - domain.ErrForbidden         si la solicitud está fuera del alcance del usuario.
func (uc *UseCase) DownloadPDF(ctx context.Context, userID, id string) ([]byte, string, error) {
	req, err := uc.loadVisible(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateRequestPDF(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	return b, fmt.Sprintf("solicitud-%s.pdf", req.ID), nil
}

// DownloadApprovalRecord genera el acta XML con las aprobaciones registradas.
func (uc *UseCase) DownloadApprovalRecord(ctx context.Context, userID, id string) ([]byte, string, error) {
	req, err := uc.loadVisible(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.record.BuildApprovalRecord(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("xml: construir acta: %w", err)
	}
	return b, fmt.Sprintf("acta-%s.xml", req.ID), nil
}

// DownloadBundle empaqueta en un ZIP el PDF y el acta XML de la solicitud (expediente).
func (uc *UseCase) DownloadBundle(ctx context.Context, userID, id string) ([]byte, string, error) {
	req, err := uc.loadVisible(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateRequestPDF(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar documento: %w", err)
	}
	record, err := uc.record.BuildApprovalRecord(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("xml: construir acta: %w", err)
	}
	b, err := uc.archiver.Bundle(ctx, []File{
		{Name: fmt.Sprintf("solicitud-%s.pdf", req.ID), Content: pdf},
		{Name: fmt.Sprintf("acta-%s.xml", req.ID), Content: record},
	})
	if err != nil {
		return nil, "", fmt.Errorf("zip: empaquetar expediente: %w", err)
	}
	return b, fmt.Sprintf("expediente-%s.zip", req.ID), nil
}

// ExportXLSX exporta el listado visible del usuario (con el mismo filtro por estado que el listado).
func (uc *UseCase) ExportXLSX(ctx context.Context, userID, status string) ([]byte, string, error) {
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	all, err := uc.requestRepo.List(ctx)
	if err != nil {
		return nil, "", err
	}
	rows := query.ByStatus(all, user.Role, user.ID, status)
	b, err := uc.sheet.ExportRequests(ctx, rows)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: exportar: %w", err)
	}
	return b, fmt.Sprintf("solicitudes-%s.xlsx", uc.now().Format("20060102")), nil
}

func (uc *UseCase) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *UseCase) loadVisible(ctx context.Context, userID, id string) (*entity.AccessRequest, error) {
	user, err := uc.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	req, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrRequestNotFound
	}
	if !query.Visible(user.Role, user.ID, req) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}
