// Package analytics contiene los casos de uso del tablero: contadores por rol
// y backlog de solicitudes abiertas.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/query"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// DashboardUseCase calcula los contadores del tablero sobre el alcance visible del usuario.
//
// Fuente de datos: AccessRequestRepository.List (lectura). Los predicados son los mismos
// que usa el listado, de modo que los números siempre cuadran con lo que se muestra.
type DashboardUseCase struct {
	requestRepo repository.AccessRequestRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(requestRepo repository.AccessRequestRepository, userRepo repository.UserRepository) *DashboardUseCase {
	return &DashboardUseCase{requestRepo: requestRepo, userRepo: userRepo, now: time.Now}
}

// GetStats devuelve total, pendientes, aprobadas, completadas y rechazadas para el usuario.
func (uc *DashboardUseCase) GetStats(ctx context.Context, userID string) (*dto.DashboardStatsDTO, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	all, err := uc.requestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	st := query.ComputeStats(all, user.Role, user.ID)
	return &dto.DashboardStatsDTO{
		Role:           string(user.Role),
		RoleLabel:      user.Role.DisplayName(),
		Total:          st.Total,
		Pending:        st.Pending,
		Approved:       st.Approved,
		Completed:      st.Completed,
		Rejected:       st.Rejected,
		CompletionRate: CompletionRate(st),
	}, nil
}

// GetBacklog agrupa las solicitudes abiertas por estado con el conteo de vencidas a hoy.
func (uc *DashboardUseCase) GetBacklog(ctx context.Context) ([]dto.BacklogEntryDTO, error) {
	all, err := uc.requestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	entries := query.Backlog(all, entity.Day(uc.now()))
	out := make([]dto.BacklogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.BacklogEntryDTO{
			Status:      string(e.Status),
			StatusLabel: e.Status.DisplayName(),
			Waiting:     e.Waiting,
			Overdue:     e.Overdue,
		})
	}
	return out, nil
}

// CompletionRate porcentaje de completadas sobre el total, redondeado a dos decimales.
// Total cero devuelve cero.
func CompletionRate(st query.Stats) decimal.Decimal {
	if st.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(st.Completed)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(st.Total))).
		Round(2)
}
