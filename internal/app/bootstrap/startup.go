// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/udyoghq/udyog/internal/app/store/dashusers"
	"github.com/udyoghq/udyog/internal/app/system/authutil"
	"github.com/udyoghq/udyog/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return seedAdminUser(ctx, dashusers.New(deps.MongoDatabase), appCfg, logger)
}

// adminUserStore is the slice of the dashboard-user store the seeder needs.
type adminUserStore interface {
	GetByLoginID(ctx context.Context, loginID string) (*models.DashboardUser, error)
	Create(ctx context.Context, u models.DashboardUser) (models.DashboardUser, error)
}

// seedAdminUser creates the dashboard admin account when admin_password is
// configured and no account with that login id exists. An existing account
// is left untouched so a deployed password is never silently rotated.
func seedAdminUser(ctx context.Context, users adminUserStore, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.AdminPassword == "" {
		logger.Info("admin_password not set, skipping admin account seed")
		return nil
	}

	_, err := users.GetByLoginID(ctx, appCfg.AdminLoginID)
	if err == nil {
		logger.Info("admin account already exists", zap.String("login_id", appCfg.AdminLoginID))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hash, err := authutil.HashPassword(appCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = users.Create(ctx, models.DashboardUser{
		LoginID:      appCfg.AdminLoginID,
		PasswordHash: hash,
		Name:         appCfg.AdminName,
	})
	if errors.Is(err, dashusers.ErrDuplicateLoginID) {
		// Another instance won the race; the account exists either way.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	logger.Info("admin account created", zap.String("login_id", appCfg.AdminLoginID))
	return nil
}
