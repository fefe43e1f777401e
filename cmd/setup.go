package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/spoolr/internal/repositories"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when absent and initializes both documents.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Created %s\n", configPath)
	} else {
		r.logger.Info("using existing config file", "path", configPath)
	}

	if err := r.init(cmd); err != nil {
		return err
	}

	if err := errors.Join(r.store.SaveCatalog(), r.store.SaveStatistics()); err != nil {
		return err
	}

	r.logger.Info("setup complete", "catalog", r.store.CatalogPath(), "stats", r.store.StatsPath())
	r.writePlain("✓ Catalog document: %s\n", r.store.CatalogPath())
	r.writePlain("✓ Statistics document: %s\n", r.store.StatsPath())

	if admin := r.store.Catalog().FindUser(repositories.DefaultAdminUsername); admin != nil &&
		admin.IsAdmin() && admin.Password == repositories.DefaultAdminPassword {
		r.writePlainln("The default administrator %s/%s is active.", repositories.DefaultAdminUsername, repositories.DefaultAdminPassword)
		r.writePlain("Create your own admin with 'spoolr users create --admin' and delete it.\n")
	}

	return nil
}
