package tasks

import (
	"testing"

	"github.com/desertthunder/spoolr/internal/models"
	th "github.com/desertthunder/spoolr/internal/testing"
)

func TestLeaderboards(t *testing.T) {
	catalog := th.FixtureCatalog()
	catalog.Printers = append(catalog.Printers, &models.Printer{ID: "p2", Name: "Prusa"})

	stats := &models.Statistics{
		FilamentUsage: []*models.FilamentUsage{
			{FilamentID: "deleted-spool", UsageCount: 7},
			{FilamentID: th.FixtureFilamentID, UsageCount: 2},
		},
		PrinterUsage: []*models.PrinterUsage{
			{PrinterID: th.FixturePrinterID, UsageCount: 3},
			{PrinterID: "p2", UsageCount: 9},
			{PrinterID: "gone", UsageCount: 3},
		},
	}

	t.Run("TopFilaments labels dangling counters", func(t *testing.T) {
		got := TopFilaments(catalog, stats, 5)

		if len(got) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(got))
		}
		if got[0].Label != UnknownFilament || got[0].Count != 7 || got[0].Known {
			t.Errorf("unexpected first entry %+v", got[0])
		}
		if got[1].Label != "PLA | red | Ø 1.75mm" || !got[1].Known {
			t.Errorf("unexpected second entry %+v", got[1])
		}
	})

	t.Run("TopPrinters sorts descending and keeps ties stable", func(t *testing.T) {
		got := TopPrinters(catalog, stats, 0)

		want := []string{"Prusa", "Ender3", UnknownPrinter}
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}
		for i, label := range want {
			if got[i].Label != label {
				t.Errorf("entry %d = %s, want %s", i, got[i].Label, label)
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		got := TopPrinters(catalog, stats, 1)
		if len(got) != 1 || got[0].Count != 9 {
			t.Errorf("unexpected entries %+v", got)
		}
	})

	t.Run("empty statistics", func(t *testing.T) {
		if got := TopFilaments(catalog, models.NewStatistics(), 5); len(got) != 0 {
			t.Errorf("expected no entries, got %d", len(got))
		}
	})

	t.Run("ranking does not reorder stored counters", func(t *testing.T) {
		TopPrinters(catalog, stats, 5)
		if stats.PrinterUsage[0].PrinterID != th.FixturePrinterID {
			t.Error("statistics order should be untouched")
		}
	})
}
