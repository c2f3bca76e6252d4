// Package approval contiene los casos de uso del ciclo de vida de las solicitudes
// de accesos: creación, consulta, aprobación, rechazo y cierre por TI.
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/query"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

// Config parámetros del flujo de aprobación.
type Config struct {
	MailDomain string // dominio usado para sugerir el correo corporativo al completar
}

// UseCase orquesta el flujo de aprobación sobre los repositorios.
// Toda mutación corre dentro de TxRunner.Run con compare-and-swap sobre el estado.
type UseCase struct {
	txRunner    TxRunner
	requestRepo repository.AccessRequestRepository
	userRepo    repository.UserRepository
	cfg         Config
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	requestRepo repository.AccessRequestRepository,
	userRepo repository.UserRepository,
	cfg Config,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:    txRunner,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechas de aprobación y credenciales.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra una solicitud nueva firmada por el solicitante, en estado pending-hr.
// La validación ocurre antes de reservar el número de secuencia.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateAccessRequest) (*dto.AccessRequestResponse, error) {
	var (
		created *entity.AccessRequest
		role    entity.Role
	)
	err := uc.txRunner.Run(ctx, func(requestRepo repository.AccessRequestRepository, userRepo repository.UserRepository) error {
		actor, err := loadActor(ctx, userRepo, userID)
		if err != nil {
			return err
		}
		signature, details, err := workflow.ValidateNew(actor, in.Details, in.Signature)
		if err != nil {
			return err
		}
		seq, err := requestRepo.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("reservar secuencia: %w", err)
		}
		req, err := workflow.NewRequest(workflow.FormatRequestID(seq), actor, details, signature, uc.now())
		if err != nil {
			return err
		}
		if err := workflow.CheckInvariants(req); err != nil {
			return err
		}
		if err := requestRepo.Create(ctx, req); err != nil {
			return err
		}
		created, role = req, actor.Role
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("request_id", created.ID).
		Str("user_id", userID).
		Str("employee_code", created.Details.EmployeeCode).
		Msg("solicitud creada")
	return toResponse(created, role), nil
}

// Get devuelve el detalle de una solicitud si está en el alcance del usuario.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*dto.AccessRequestResponse, error) {
	actor, req, err := uc.loadVisible(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toResponse(req, actor.Role), nil
}

// List devuelve el alcance visible del usuario, filtrado por estado ("all" o vacío = sin filtro),
// ordenado por ID. El filtro es por igualdad exacta: un estado desconocido da un listado vacío.
func (uc *UseCase) List(ctx context.Context, userID, status string) (*dto.AccessRequestListResponse, error) {
	actor, err := loadActor(ctx, uc.userRepo, userID)
	if err != nil {
		return nil, err
	}
	all, err := uc.requestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := query.ByStatus(all, actor.Role, actor.ID, status)
	items := make([]dto.AccessRequestSummary, 0, len(rows))
	for _, r := range rows {
		items = append(items, toSummary(r, actor.Role))
	}
	if status == "" {
		status = entity.StatusFilterAll
	}
	return &dto.AccessRequestListResponse{Items: items, Total: len(items), Status: status}, nil
}

// Actions informa qué puede hacer el usuario con la solicitud en su estado actual.
// Cuando la acción disponible es completar incluye la sugerencia de credenciales.
func (uc *UseCase) Actions(ctx context.Context, userID, id string) (*dto.ActionsResponse, error) {
	actor, req, err := uc.loadVisible(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	actions := workflow.Actions(actor.Role, req.Status)
	out := &dto.ActionsResponse{
		RequestID: req.ID,
		Status:    string(req.Status),
		CanAct:    workflow.CanAct(actor.Role, req.Status),
		Actions:   actionNames(actions),
	}
	for _, a := range actions {
		if a == workflow.ActionComplete {
			suggested := uc.suggestCredentials(req)
			out.SuggestedCredentials = &suggested
		}
	}
	return out, nil
}

// loadVisible carga usuario y solicitud y comprueba que la solicitud esté en su alcance.
func (uc *UseCase) loadVisible(ctx context.Context, userID, id string) (*entity.User, *entity.AccessRequest, error) {
	actor, err := loadActor(ctx, uc.userRepo, userID)
	if err != nil {
		return nil, nil, err
	}
	req, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, domain.ErrRequestNotFound
	}
	if !query.Visible(actor.Role, actor.ID, req) {
		return nil, nil, domain.ErrForbidden
	}
	return actor, req, nil
}

func loadActor(ctx context.Context, repo repository.UserRepository, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
