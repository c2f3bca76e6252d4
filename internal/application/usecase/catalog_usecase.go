package usecase

import (
	"github.com/jhoicas/Accesos-api/internal/application/dto"
	"github.com/jhoicas/Accesos-api/internal/domain/catalog"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// CatalogUseCase expone los catálogos fijos del formulario.
type CatalogUseCase struct{}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase() *CatalogUseCase {
	return &CatalogUseCase{}
}

// GetAll devuelve sucursales, puestos, áreas y las etiquetas de los valores enumerados.
func (uc *CatalogUseCase) GetAll() *dto.CatalogsResponse {
	statuses := make(map[string]string, len(entity.Statuses()))
	for _, s := range entity.Statuses() {
		statuses[string(s)] = s.DisplayName()
	}
	roles := make(map[string]string, len(entity.Roles()))
	for _, r := range entity.Roles() {
		roles[string(r)] = r.DisplayName()
	}
	return &dto.CatalogsResponse{
		Branches:           catalog.Branches(),
		Positions:          catalog.Positions(),
		Areas:              catalog.Areas(),
		ContractModalities: catalog.ContractModalities(),
		UserActions:        catalog.UserActions(),
		Priorities:         catalog.Priorities(),
		Statuses:           statuses,
		Roles:              roles,
	}
}
