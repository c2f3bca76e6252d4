package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

var _ repository.AccessRequestRepository = (*AccessRequestRepo)(nil)

const accessRequestColumns = `id, requester_id, requester_name, details, created_date, status, signatures, approvals, credentials, updated_at`

// AccessRequestRepo implementación de AccessRequestRepository (usable con pool o tx).
// Detalles, firmas, aprobaciones y credenciales se guardan como JSONB.
type AccessRequestRepo struct {
	q Querier
}

// NewAccessRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccessRequestRepository(q Querier) *AccessRequestRepo {
	return &AccessRequestRepo{q: q}
}

// NextSequence reserva el siguiente valor de access_request_seq.
func (r *AccessRequestRepo) NextSequence(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('access_request_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("nextval access_request_seq: %w", err)
	}
	return n, nil
}

// Create persiste una solicitud nueva.
func (r *AccessRequestRepo) Create(ctx context.Context, req *entity.AccessRequest) error {
	query := `INSERT INTO access_requests (` + accessRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.RequesterID, req.RequesterName, req.Details, req.CreatedDate, string(req.Status),
		nonNilSignatures(req.Signatures), nonNilApprovals(req.Approvals), req.Credentials, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: solicitud %s ya existe", domain.ErrConflict, req.ID)
		}
		return fmt.Errorf("insert access request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *AccessRequestRepo) GetByID(ctx context.Context, id string) (*entity.AccessRequest, error) {
	return r.findOne(ctx, `SELECT `+accessRequestColumns+` FROM access_requests WHERE id = $1`, id)
}

// GetForUpdate obtiene la solicitud bloqueando la fila hasta el fin de la transacción.
func (r *AccessRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.AccessRequest, error) {
	return r.findOne(ctx, `SELECT `+accessRequestColumns+` FROM access_requests WHERE id = $1 FOR UPDATE`, id)
}

// List devuelve todas las solicitudes.
func (r *AccessRequestRepo) List(ctx context.Context) ([]*entity.AccessRequest, error) {
	rows, err := r.q.Query(ctx, `SELECT `+accessRequestColumns+` FROM access_requests ORDER BY length(id), id`)
	if err != nil {
		return nil, fmt.Errorf("list access requests: %w", err)
	}
	defer rows.Close()
	var out []*entity.AccessRequest
	for rows.Next() {
		req, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// UpdateIfStatus persiste estado, firmas, aprobaciones y credenciales si el estado
// almacenado sigue siendo expected.
func (r *AccessRequestRepo) UpdateIfStatus(ctx context.Context, req *entity.AccessRequest, expected entity.Status) error {
	query := `
		UPDATE access_requests
		SET status = $2, signatures = $3, approvals = $4, credentials = $5, updated_at = $6
		WHERE id = $1 AND status = $7`
	tag, err := r.q.Exec(ctx, query,
		req.ID, string(req.Status), nonNilSignatures(req.Signatures), nonNilApprovals(req.Approvals),
		req.Credentials, req.UpdatedAt, string(expected),
	)
	if err != nil {
		return fmt.Errorf("update access request: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM access_requests WHERE id = $1)`, req.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check access request: %w", err)
	}
	if !exists {
		return domain.ErrRequestNotFound
	}
	return fmt.Errorf("%w: la solicitud %s ya no está en %s", domain.ErrConflict, req.ID, expected)
}

func (r *AccessRequestRepo) findOne(ctx context.Context, query, id string) (*entity.AccessRequest, error) {
	req, err := scanAccessRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func scanAccessRequest(row rowScanner) (*entity.AccessRequest, error) {
	var (
		req    entity.AccessRequest
		status string
	)
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.RequesterName, &req.Details, &req.CreatedDate, &status,
		&req.Signatures, &req.Approvals, &req.Credentials, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan access request: %w", err)
	}
	req.Status = entity.Status(status)
	if req.Signatures == nil {
		req.Signatures = map[entity.Stage]string{}
	}
	if req.Approvals == nil {
		req.Approvals = map[entity.Stage]entity.Approval{}
	}
	return &req, nil
}

// nonNilSignatures evita guardar JSON null en columnas NOT NULL.
func nonNilSignatures(m map[entity.Stage]string) map[entity.Stage]string {
	if m == nil {
		return map[entity.Stage]string{}
	}
	return m
}

func nonNilApprovals(m map[entity.Stage]entity.Approval) map[entity.Stage]entity.Approval {
	if m == nil {
		return map[entity.Stage]entity.Approval{}
	}
	return m
}
