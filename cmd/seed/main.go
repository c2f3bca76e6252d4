package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/Accesos-api/internal/domain"
	"github.com/jhoicas/Accesos-api/internal/domain/repository"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Accesos-api/internal/infrastructure/seed"
	"github.com/jhoicas/Accesos-api/pkg/config"
	"github.com/jhoicas/Accesos-api/pkg/logger"
)

var flagPassword = &cli.StringFlag{
	Name:  "password",
	Value: seed.DefaultPassword,
	Usage: "Password de los usuarios de ejemplo",
}

var flagWithRequests = &cli.BoolFlag{
	Name:  "with-requests",
	Value: true,
	Usage: "Insertar también la solicitud de ejemplo REQ-001",
}

var flagCost = &cli.IntFlag{
	Name:  "bcrypt-cost",
	Value: 0,
	Usage: "Costo bcrypt (0 = por defecto)",
}

func main() {
	app := &cli.App{
		Name:           "seed",
		Usage:          "Esquema y datos de ejemplo para PostgreSQL",
		DefaultCommand: "apply",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Imprime el SQL del esquema",
				Action: func(cCtx *cli.Context) error {
					fmt.Fprint(cCtx.App.Writer, postgres.Schema)
					return nil
				},
			},
			{
				Name:  "apply",
				Usage: "Migra el esquema e inserta usuarios (y solicitudes) de ejemplo; omite los existentes",
				Flags: []cli.Flag{flagPassword, flagWithRequests, flagCost},
				Action: func(cCtx *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
					return apply(cCtx.Context, cfg, log,
						cCtx.String(flagPassword.Name), cCtx.Int(flagCost.Name), cCtx.Bool(flagWithRequests.Name))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func apply(ctx context.Context, cfg *config.Config, log *logger.Logger, password string, cost int, withRequests bool) error {
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	now := time.Now()
	users, err := seed.Users(password, cost, now)
	if err != nil {
		return err
	}
	var insertedUsers, insertedRequests int
	err = postgres.NewTxRunner(pool).Run(ctx, func(requestRepo repository.AccessRequestRepository, userRepo repository.UserRepository) error {
		for _, u := range users {
			existing, err := userRepo.GetByID(ctx, u.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := userRepo.Create(ctx, u); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					continue
				}
				return err
			}
			insertedUsers++
		}
		if !withRequests {
			return nil
		}
		for _, r := range seed.Requests(now) {
			existing, err := requestRepo.GetByID(ctx, r.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := requestRepo.Create(ctx, r); err != nil {
				return err
			}
			insertedRequests++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := postgres.SyncSequence(ctx, pool); err != nil {
		return err
	}

	log.Info().
		Int("users", insertedUsers).
		Int("requests", insertedRequests).
		Msg("datos de ejemplo aplicados")
	return nil
}
