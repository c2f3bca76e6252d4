package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema DDL de la base (idempotente).
//
//go:embed schema.sql
var Schema string

// Migrate aplica el esquema.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}

// SyncSequence ajusta access_request_seq al mayor número de solicitud existente,
// para que las solicitudes cargadas a mano no colisionen con las nuevas.
func SyncSequence(ctx context.Context, q Querier) error {
	const query = `
		SELECT setval('access_request_seq',
			GREATEST(COALESCE(MAX(NULLIF(regexp_replace(id, '\D', '', 'g'), '')::bigint), 0), 1),
			COUNT(*) > 0)
		FROM access_requests`
	if _, err := q.Exec(ctx, query); err != nil {
		return fmt.Errorf("sincronizar secuencia: %w", err)
	}
	return nil
}
