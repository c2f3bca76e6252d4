// Package catalog contiene los catálogos fijos del formulario de solicitud.
package catalog

import "github.com/jhoicas/Accesos-api/internal/domain/entity"

var branches = []string{
	"Sucursal Central",
	"Sucursal Norte",
	"Sucursal Sur",
	"Sucursal Este",
	"Sucursal Oeste",
	"Sucursal Centro Comercial",
	"Sucursal Aeropuerto",
	"Sucursal Hospital",
}

var positions = []string{
	"Gerente General",
	"Gerente de Área",
	"Supervisor",
	"Coordinador",
	"Analista",
	"Asistente",
	"Técnico",
	"Operador",
	"Recepcionista",
	"Contador",
	"Auxiliar Contable",
	"Vendedor",
	"Cajero",
	"Bodeguero",
	"Conserje",
}

var areas = []string{
	"Gerencia General",
	"Gestión del Talento Humano",
	"Tecnología de la Información",
	"Contabilidad y Finanzas",
	"Ventas",
	"Marketing",
	"Operaciones",
	"Logística",
	"Compras",
	"Servicio al Cliente",
	"Calidad",
	"Seguridad",
	"Mantenimiento",
}

// Branches sucursales disponibles.
func Branches() []string { return append([]string(nil), branches...) }

// Positions puestos disponibles.
func Positions() []string { return append([]string(nil), positions...) }

// Areas áreas disponibles.
func Areas() []string { return append([]string(nil), areas...) }

// ContractModalities modalidades de contratación con su etiqueta.
func ContractModalities() map[string]string {
	return map[string]string{
		entity.ContractPayroll:   "Nómina",
		entity.ContractFees:      "Honorarios",
		entity.ContractPiecework: "Destajo",
		entity.ContractSpecific:  "Específico",
		entity.ContractGeneric:   "Genérico",
	}
}

// UserActions tipos de acción sobre el usuario con su etiqueta.
func UserActions() map[string]string {
	return map[string]string{
		entity.UserActionNew:        "Nuevo",
		entity.UserActionModify:     "Modificar",
		entity.UserActionDeactivate: "Inactivar",
	}
}

// Priorities prioridades con su etiqueta.
func Priorities() map[string]string {
	return map[string]string{
		string(entity.PriorityHigh):   "Alta",
		string(entity.PriorityMedium): "Media",
		string(entity.PriorityLow):    "Baja",
	}
}

// Label devuelve la etiqueta de un valor de catálogo o el valor mismo si no existe.
func Label(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}
