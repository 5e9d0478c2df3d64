package main

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	appMigrations "github.com/ccnu/student-achievements/internal/app/migrations"
	appRepos "github.com/ccnu/student-achievements/internal/app/repositories"
	appServices "github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/bootstrap"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	pool, err := bootstrap.OpenDatabase(cfg, lgr)
	if err != nil {
		os.Exit(1)
	}

	cli := &commandLine{
		accounts: appServices.NewAuthService(appRepos.NewUserRepository(pool), nil, logger.Component("admin")),
		migrate:  poolMigrator(pool),
		out:      os.Stdout,
	}

	err = cli.run(context.Background(), os.Args)
	pool.Close()
	if err != nil {
		if !errors.Is(err, errHelp) {
			lgr.Error().Err(err).Strs("args", os.Args[1:]).Msg("Admin command failed")
		}
		os.Exit(1)
	}
}

func poolMigrator(pool *pgxpool.Pool) migrateFunc {
	return func(ctx context.Context, direction string) error {
		switch direction {
		case "up":
			return appMigrations.Up(ctx, pool)
		case "down":
			return appMigrations.Down(ctx, pool)
		case "status":
			return appMigrations.Status(ctx, pool)
		default:
			return errUnknownMigration
		}
	}
}
