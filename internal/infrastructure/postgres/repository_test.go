package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/seed"
)

// newPool conecta a TEST_DATABASE_URL y deja el esquema vacío con los usuarios de ejemplo.
// Sin la variable el test se omite.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE access_requests, users CASCADE`)
	require.NoError(t, err)

	users, err := seed.Users(seed.DefaultPassword, bcrypt.MinCost, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	repo := postgres.NewUserRepository(pool)
	for _, u := range users {
		require.NoError(t, repo.Create(ctx, u))
	}
	return pool
}

func TestUserRepo_ConsultasYActualizacion(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	repo := postgres.NewUserRepository(pool)

	u, err := repo.GetByEmail(ctx, "MARIA.GARCIA@empresa.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleHR, u.Role)

	missing, err := repo.GetByID(ctx, "99")
	require.NoError(t, err)
	assert.Nil(t, missing)

	u.Signature = seed.PixelSignature
	require.NoError(t, repo.Update(ctx, u))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSignature())

	dup := *u
	dup.ID = "77"
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrConflict, "email duplicado")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestAccessRequestRepo_JSONBYCompareAndSwap(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	repo := postgres.NewAccessRequestRepository(pool)

	req := seed.Requests(time.Now().UTC().Truncate(time.Microsecond))[0]
	require.NoError(t, repo.Create(ctx, req))
	require.NoError(t, postgres.SyncSequence(ctx, pool))

	n, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "la secuencia continúa después de REQ-001")

	got, err := repo.GetByID(ctx, "REQ-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, req.Details, got.Details)
	assert.Equal(t, seed.PixelSignature, got.Signatures[entity.StageRequester])
	assert.Nil(t, got.Credentials)

	got.Status = entity.StatusPendingHRManagement
	got.Signatures[entity.StageHR] = "sig"
	got.Approvals[entity.StageHR] = entity.Approval{Date: "2024-01-16", ApproverName: "María García"}
	require.NoError(t, repo.UpdateIfStatus(ctx, got, entity.StatusPendingHR))

	stale := got.Clone()
	stale.Status = entity.StatusRejected
	assert.ErrorIs(t, repo.UpdateIfStatus(ctx, stale, entity.StatusPendingHR), domain.ErrConflict)

	stale.ID = "REQ-404"
	assert.ErrorIs(t, repo.UpdateIfStatus(ctx, stale, entity.StatusPendingHR), domain.ErrRequestNotFound)

	after, err := repo.GetByID(ctx, "REQ-001")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingHRManagement, after.Status)
	assert.Equal(t, "María García", after.Approvals[entity.StageHR].ApproverName)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	req := seed.Requests(time.Now().UTC())[0]
	err := postgres.NewTxRunner(pool).Run(ctx, func(requestRepo repository.AccessRequestRepository, _ repository.UserRepository) error {
		require.NoError(t, requestRepo.Create(ctx, req))
		return domain.ErrInvalidTransition
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := postgres.NewAccessRequestRepository(pool).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "la creación se revierte")
}
