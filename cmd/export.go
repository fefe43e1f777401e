package main

import (
	"context"

	"github.com/desertthunder/spoolr/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export writes the inventory and leaderboards in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.authorize(cmd); err != nil {
		return err
	}

	inv := &formatter.Inventory{
		Catalog: r.store.Catalog(),
		Stats:   r.store.Statistics(),
		TopN:    r.config.Stats.TopN,
	}

	path, err := formatter.WriteExport(inv, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("inventory exported", "format", format, "path", path)
	return r.writePlain("✓ Exported %s to %s\n", format, path)
}
