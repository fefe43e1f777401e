package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/urfave/cli/v3"
)

// FilamentList prints every spool sorted by type and color.
func (r *Runner) FilamentList(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	filaments := r.filaments.List()
	if cmd.Bool("json") {
		return r.writeJSON(filaments, true)
	}

	r.writePlainHeader(fmt.Sprintf("Filaments (%d)", len(filaments)))
	if len(filaments) == 0 {
		return r.writePlain("No spools in the catalog.\n")
	}
	for _, f := range filaments {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// FilamentAdd creates a spool.
func (r *Runner) FilamentAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	filament := models.NewFilament(cmd.String("type"), cmd.String("color"), cmd.Float("diameter"), cmd.Float("grams"))
	if err := r.filaments.Create(filament); err != nil {
		return err
	}

	return r.writePlain("✓ Added %s\n", filament)
}

// FilamentRemove deletes a spool. Its usage counter is kept.
func (r *Runner) FilamentRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	id := cmd.String("id")
	if err := r.filaments.Delete(id); err != nil {
		return err
	}

	return r.writePlain("✓ Removed filament %s\n", id)
}

// FilamentRestock adds grams to a spool.
func (r *Runner) FilamentRestock(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	filament, err := r.filaments.Restock(cmd.String("id"), cmd.Float("grams"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Restocked %s\n", filament)
}

// PrinterList prints every printer in catalog order.
func (r *Runner) PrinterList(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	printers := r.printers.List()
	if cmd.Bool("json") {
		return r.writeJSON(printers, true)
	}

	r.writePlainHeader(fmt.Sprintf("Printers (%d)", len(printers)))
	if len(printers) == 0 {
		return r.writePlain("No printers in the catalog.\n")
	}
	for _, p := range printers {
		r.writePlain("  %s\n", p)
	}
	return nil
}

// PrinterAdd creates a printer.
func (r *Runner) PrinterAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	printer := models.NewPrinter(cmd.String("name"))
	if err := r.printers.Create(printer); err != nil {
		return err
	}

	return r.writePlain("✓ Added %s\n", printer)
}

// PrinterRemove deletes a printer. Its usage counter is kept.
func (r *Runner) PrinterRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	id := cmd.String("id")
	if err := r.printers.Delete(id); err != nil {
		return err
	}

	return r.writePlain("✓ Removed printer %s\n", id)
}
