package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Accesos-api/docs"
	appanalytics "github.com/jhoicas/Accesos-api/internal/application/analytics"
	"github.com/jhoicas/Accesos-api/internal/application/approval"
	"github.com/jhoicas/Accesos-api/internal/application/auth"
	"github.com/jhoicas/Accesos-api/internal/application/reminder"
	"github.com/jhoicas/Accesos-api/internal/application/report"
	"github.com/jhoicas/Accesos-api/internal/application/usecase"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/archive"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/excel"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/memory"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Accesos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/seed"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/xmlrecord"
	httpRouter "github.com/jhoicas/Accesos-api/internal/interfaces/http"
	"github.com/jhoicas/Accesos-api/pkg/config"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

// @title                       Accesos API
// @version                     1.0
// @description                 Flujo de aprobación con firma digital para solicitudes de acceso.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// stores puertos de persistencia del store elegido.
type stores struct {
	requests repository.AccessRequestRepository
	users    repository.UserRepository
	tx       approval.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	// Actas XML: firma XMLDSig solo si hay certificado configurado
	var recordOpts []xmlrecord.Option
	if cfg.Record.CertPath != "" {
		signer, err := xmlrecord.LoadSigner(cfg.Record.CertPath, cfg.Record.KeyPath, cfg.Record.CertPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar certificado de actas")
		}
		recordOpts = append(recordOpts, xmlrecord.WithSigner(signer))
	}

	approvalUC := approval.NewUseCase(st.tx, st.requests, st.users, approval.Config{
		MailDomain: cfg.Workflow.MailDomain,
	}, log)
	reportUC := report.NewUseCase(
		st.requests, st.users,
		infrapdf.NewMarotoPDFGenerator(cfg.Workflow.Company),
		xmlrecord.NewBuilder(recordOpts...),
		excel.NewExporter(),
		archive.NewZipBuilder(),
	)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Recordatorio de pendientes (deshabilitado si REMINDER_SCHEDULE está vacío)
	sched := scheduler.New(log, time.Duration(cfg.Reminder.Timeout)*time.Second)
	if cfg.Reminder.Schedule != "" {
		reminderUC := reminder.NewUseCase(st.requests, st.users, notify.NewLogNotifier(log), log)
		err := sched.Register("pending-reminder", cfg.Reminder.Schedule, func(ctx context.Context) error {
			_, err := reminderUC.Run(ctx)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("programar recordatorio")
		}
		log.Info().Str("schedule", cfg.Reminder.Schedule).Time("next", sched.Next("pending-reminder")).Msg("recordatorio programado")
	}
	sched.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024, // firmas en data URL
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Accesos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(st.users),
		CatalogUC:   usecase.NewCatalogUseCase(),
		ApprovalUC:  approvalUC,
		ReportUC:    reportUC,
		DashboardUC: appanalytics.NewDashboardUseCase(st.requests, st.users),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores construye el store en memoria (con datos de ejemplo) o el de PostgreSQL.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			requests: postgres.NewAccessRequestRepository(pool),
			users:    postgres.NewUserRepository(pool),
			tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	}

	store := memory.NewStore()
	if cfg.Storage.Seed {
		now := time.Now()
		users, err := seed.Users(seed.DefaultPassword, 0, now)
		if err != nil {
			return nil, err
		}
		store.Load(users, seed.Requests(now))
		log.Warn().Int("users", len(users)).Msg("store en memoria con datos de ejemplo (password por defecto)")
	}
	return &stores{
		requests: store.Requests(),
		users:    store.Users(),
		tx:       memory.NewTxRunner(store),
		close:    func() {},
	}, nil
}
