package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/domain/workflow"
	"github.com/jhoicas/Accesos-api/pkg/slug"
)

// Approve firma y aprueba la etapa del usuario. Si la firma usada difiere de la del
// perfil, el perfil queda actualizado en la misma transacción.
func (uc *UseCase) Approve(ctx context.Context, userID, id string, in dto.ApproveRequest) (*dto.TransitionResponse, error) {
	return uc.transition(ctx, userID, id, workflow.ActionApprove,
		workflow.ApproveInput{Signature: in.Signature, Comments: in.Comments}, entity.Credentials{})
}

// Reject lleva la solicitud a rechazado desde cualquier etapa pendiente del usuario.
func (uc *UseCase) Reject(ctx context.Context, userID, id string) (*dto.TransitionResponse, error) {
	return uc.transition(ctx, userID, id, workflow.ActionReject, workflow.ApproveInput{}, entity.Credentials{})
}

// Complete cierra la implementación con las credenciales emitidas por TI.
// Los campos vacíos se completan con la sugerencia derivada del nombre del empleado.
func (uc *UseCase) Complete(ctx context.Context, userID, id string, in dto.CompleteRequest) (*dto.TransitionResponse, error) {
	creds := entity.Credentials{
		Email:       strings.TrimSpace(in.Email),
		Username:    strings.TrimSpace(in.Username),
		NetworkUser: strings.TrimSpace(in.NetworkUser),
		AppUser:     strings.TrimSpace(in.AppUser),
	}
	return uc.transition(ctx, userID, id, workflow.ActionComplete, workflow.ApproveInput{}, creds)
}

// transition lee la solicitud bloqueada, aplica la acción sobre una copia, valida invariantes
// y persiste con compare-and-swap sobre el estado leído. Si otro escritor ganó la carrera
// la acción se rechaza con ErrInvalidTransition y nada cambia.
func (uc *UseCase) transition(
	ctx context.Context,
	userID, id string,
	action workflow.Action,
	in workflow.ApproveInput,
	creds entity.Credentials,
) (*dto.TransitionResponse, error) {
	var (
		result  *entity.AccessRequest
		outcome workflow.Outcome
		role    entity.Role
	)
	err := uc.txRunner.Run(ctx, func(requestRepo repository.AccessRequestRepository, userRepo repository.UserRepository) error {
		actor, err := loadActor(ctx, userRepo, userID)
		if err != nil {
			return err
		}
		current, err := requestRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrRequestNotFound
		}
		if action == workflow.ActionComplete {
			creds = mergeCredentials(creds, uc.suggestCredentials(current))
			if creds.Username == "" && creds.Email == "" {
				return fmt.Errorf("%w: no se puede derivar un usuario de %q ni del código %q; indique username o email",
					domain.ErrInvalidInput, current.Details.FullName, current.Details.EmployeeCode)
			}
		}

		working := current.Clone()
		outcome, err = workflow.Apply(working, actor, action, in, creds, uc.now())
		if err != nil {
			return err
		}
		if err := workflow.CheckInvariants(working); err != nil {
			return err
		}
		if err := requestRepo.UpdateIfStatus(ctx, working, current.Status); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrInvalidTransition
			}
			return err
		}
		if outcome.SignatureEnrolled {
			if err := userRepo.Update(ctx, actor); err != nil {
				return err
			}
		}
		result, role = working, actor.Role
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).
			Str("request_id", id).
			Str("user_id", userID).
			Str("action", string(action)).
			Msg("transición rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("request_id", outcome.RequestID).
		Str("user_id", userID).
		Str("action", string(outcome.Action)).
		Str("from", string(outcome.From)).
		Str("to", string(outcome.To)).
		Bool("signature_enrolled", outcome.SignatureEnrolled).
		Msg("transición aplicada")

	return &dto.TransitionResponse{
		Request:           *toResponse(result, role),
		Action:            string(outcome.Action),
		From:              string(outcome.From),
		To:                string(outcome.To),
		SignatureEnrolled: outcome.SignatureEnrolled,
	}, nil
}

// suggestCredentials deriva usuario y correo del nombre del empleado (o del solicitante si falta).
// Si el nombre no tiene letras latinas usa "emp.<código de empleado>". Vacío si ninguno sirve.
func (uc *UseCase) suggestCredentials(req *entity.AccessRequest) entity.Credentials {
	name := req.Details.FullName
	if strings.TrimSpace(name) == "" {
		name = req.RequesterName
	}
	username := slug.Username(name)
	if username == "" {
		if code := slug.Username(req.Details.EmployeeCode); code != "" {
			username = "emp." + code
		}
	}
	if username == "" {
		return entity.Credentials{}
	}
	return entity.Credentials{
		Email:       slug.Address(username, uc.cfg.MailDomain),
		Username:    username,
		NetworkUser: username,
	}
}

func mergeCredentials(in, suggested entity.Credentials) entity.Credentials {
	if in.Email == "" {
		in.Email = suggested.Email
	}
	if in.Username == "" {
		in.Username = suggested.Username
	}
	if in.NetworkUser == "" {
		in.NetworkUser = suggested.NetworkUser
	}
	if in.AppUser == "" {
		in.AppUser = suggested.AppUser
	}
	return in
}
