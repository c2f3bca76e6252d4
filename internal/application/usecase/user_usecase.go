package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
)

// signaturePrefix las firmas se capturan en canvas y llegan como data URL de imagen.
const signaturePrefix = "data:image/"

// UserUseCase aplica reglas de negocio para el perfil del usuario y su firma.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: time.Now}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile modifica nombre, departamento, cargo y teléfono. Los campos vacíos se conservan;
// rol y email no son editables.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, id string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Department); v != "" {
		user.Department = v
	}
	if v := strings.TrimSpace(in.Position); v != "" {
		user.Position = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = v
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetSignature devuelve la firma almacenada (vacía si no tiene).
func (uc *UserUseCase) GetSignature(ctx context.Context, id string) (*dto.SignatureResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SignatureResponse{Signature: user.Signature}, nil
}

// UpdateSignature reemplaza la firma almacenada. Debe ser un data URL de imagen.
func (uc *UserUseCase) UpdateSignature(ctx context.Context, id string, in dto.UpdateSignatureRequest) (*dto.UserResponse, error) {
	sig := strings.TrimSpace(in.Signature)
	if !strings.HasPrefix(sig, signaturePrefix) {
		return nil, fmt.Errorf("%w: la firma debe ser un data URL de imagen", domain.ErrInvalidInput)
	}
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Signature = sig
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ToUserResponse convierte la entidad al DTO de salida (sin password ni firma).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		RoleLabel:    u.Role.DisplayName(),
		Department:   u.Department,
		Position:     u.Position,
		Phone:        u.Phone,
		HasSignature: u.HasSignature(),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
