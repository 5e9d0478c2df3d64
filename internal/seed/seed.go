package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/ccnu/student-achievements/internal/app/repositories"
	appServices "github.com/ccnu/student-achievements/internal/app/services"
	"github.com/ccnu/student-achievements/internal/config"
)

// AdminProvisioner creates or upgrades the super admin account
type AdminProvisioner interface {
	EnsureSuperAdmin(ctx context.Context, studentID, name, password string) (bool, error)
}

// CreateDefaultData provisions the super admin configured under admin.* when set.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	users := appRepos.NewUserRepository(dbPool)
	return EnsureAdmin(ctx, appServices.NewAuthService(users, nil, lgr), cfg, lgr)
}

// EnsureAdmin applies the admin section of the configuration through p
func EnsureAdmin(ctx context.Context, p AdminProvisioner, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.StudentID == "" {
		lgr.Debug().Msg("No admin account configured, skipping seed")
		return nil
	}

	created, err := p.EnsureSuperAdmin(ctx, cfg.Admin.StudentID, cfg.Admin.Name, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to provision super admin %s: %w", cfg.Admin.StudentID, err)
	}

	if created {
		lgr.Info().Str("studentID", cfg.Admin.StudentID).Msg("Default super admin created")
	} else {
		lgr.Info().Str("studentID", cfg.Admin.StudentID).Msg("Default super admin already present")
	}
	return nil
}
