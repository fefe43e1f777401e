package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/tasks"
	"github.com/urfave/cli/v3"
)

type usageReport struct {
	FilamentID    string  `json:"filament_id"`
	Filament      string  `json:"filament"`
	PrinterID     string  `json:"printer_id"`
	Printer       string  `json:"printer"`
	AmountGrams   float64 `json:"amount_grams"`
	PreviousGrams float64 `json:"previous_grams"`
	Remaining     float64 `json:"remaining_grams"`
	FilamentUses  int     `json:"filament_uses"`
	PrinterUses   int     `json:"printer_uses"`
	Applied       bool    `json:"applied"`
}

func newUsageReport(result *tasks.UsageResult) usageReport {
	report := usageReport{
		FilamentID:    result.Filament.ID,
		Filament:      result.Filament.Label(),
		PrinterID:     result.Printer.ID,
		Printer:       result.Printer.Name,
		AmountGrams:   result.Job.AmountGrams,
		PreviousGrams: result.PreviousGrams,
		Remaining:     result.Filament.RemainingGrams,
		FilamentUses:  result.FilamentUses,
		PrinterUses:   result.PrinterUses,
		Applied:       result.Applied,
	}
	if !result.Applied {
		report.Remaining = result.PreviousGrams - result.Job.AmountGrams
		report.FilamentUses++
		report.PrinterUses++
	}
	return report
}

// UsageApply reconciles a usage file against the inventory, or only validates it with --dry-run.
func (r *Runner) UsageApply(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: usage file path", shared.ErrMissingArgument)
	}

	if err := r.init(cmd); err != nil {
		return err
	}

	var result *tasks.UsageResult
	var applyErr error
	if cmd.Bool("dry-run") {
		job, err := tasks.ParseJobFile(path)
		if err != nil {
			return err
		}
		if result, err = r.engine.Preview(job); err != nil {
			return err
		}
	} else {
		result, applyErr = r.engine.ApplyFile(path)
		if result == nil {
			return applyErr
		}
	}

	report := newUsageReport(result)
	if cmd.Bool("json") {
		if err := r.writeJSON(report, true); err != nil {
			return err
		}
		return applyErr
	}

	if report.Applied {
		r.writePlain("✓ Usage applied\n")
	} else {
		r.writePlain("Dry run: nothing was saved\n")
	}
	r.writePlain("Filament:  %s\n", report.Filament)
	r.writePlain("Printer:   %s\n", report.Printer)
	r.writePlain("Used:      %gg\n", report.AmountGrams)
	r.writePlain("Remaining: %gg (was %gg)\n", report.Remaining, report.PreviousGrams)
	r.writePlain("Uses:      filament %d, printer %d\n", report.FilamentUses, report.PrinterUses)

	if result.Applied && !result.CatalogSaved {
		r.writePlain("Warning: catalog %s was not saved, stock on disk is unchanged\n", r.store.CatalogPath())
	}
	if result.Applied && !result.StatsSaved {
		r.writePlain("Warning: statistics %s were not saved, usage counters on disk are unchanged\n", r.store.StatsPath())
	}
	return applyErr
}
