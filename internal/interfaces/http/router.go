package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Accesos-api/internal/application/analytics"
	"github.com/jhoicas/Accesos-api/internal/application/approval"
	"github.com/jhoicas/Accesos-api/internal/application/auth"
	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/application/usecase"
	"github.com/jhoicas/Accesos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	CatalogUC   *usecase.CatalogUseCase
	ApprovalUC  *approval.UseCase
	ReportUC    *report.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// approverRoles roles que participan en alguna etapa de aprobación.
func approverRoles() []string {
	return []string{
		string(entity.RoleHR), string(entity.RoleHRManagement),
		string(entity.RoleIT), string(entity.RoleITManagement),
	}
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	profile := NewProfileHandler(deps.UserUC)
	protected.Get("/me", profile.Me)
	protected.Put("/me", profile.UpdateMe)
	protected.Get("/me/signature", profile.GetSignature)
	protected.Put("/me/signature", profile.UpdateSignature)

	catalogs := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/catalogs", catalogs.GetAll)

	// Solicitudes: la autorización fina la decide el flujo con el usuario recargado del store.
	requests := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.ApprovalUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	requests.Get("/", requestHandler.List)
	requests.Post("/", requestHandler.Create)
	requests.Get("/export", reportHandler.Export)
	requests.Get("/:id", requestHandler.Get)
	requests.Get("/:id/actions", requestHandler.Actions)
	requests.Get("/:id/pdf", reportHandler.PDF)
	requests.Get("/:id/xml", reportHandler.ApprovalRecord)
	requests.Get("/:id/bundle", reportHandler.Bundle)
	requests.Post("/:id/approve", requestHandler.Approve)
	requests.Post("/:id/reject", requestHandler.Reject)
	requests.Post("/:id/complete", requestHandler.Complete)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/backlog", RequireRole(approverRoles()...), dashboardHandler.GetBacklog)
}
