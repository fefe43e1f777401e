package tasks

import (
	"cmp"
	"slices"

	"github.com/desertthunder/spoolr/internal/models"
)

const (
	UnknownFilament = "Unknown filament"
	UnknownPrinter  = "Unknown printer"
)

// LeaderboardEntry is one ranked usage counter.
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Known bool   `json:"known"` // false when the counter refers to a deleted entity
}

// TopFilaments ranks filament counters by usage, highest first, returning at most n entries.
// A non-positive n returns every entry.
func TopFilaments(catalog *models.Catalog, stats *models.Statistics, n int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(stats.FilamentUsage))
	for _, usage := range stats.FilamentUsage {
		entry := LeaderboardEntry{ID: usage.FilamentID, Label: UnknownFilament, Count: usage.UsageCount}
		if f := catalog.FindFilament(usage.FilamentID); f != nil {
			entry.Label = f.Label()
			entry.Known = true
		}
		entries = append(entries, entry)
	}
	return rank(entries, n)
}

// TopPrinters ranks printer counters by usage, highest first, returning at most n entries.
// A non-positive n returns every entry.
func TopPrinters(catalog *models.Catalog, stats *models.Statistics, n int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(stats.PrinterUsage))
	for _, usage := range stats.PrinterUsage {
		entry := LeaderboardEntry{ID: usage.PrinterID, Label: UnknownPrinter, Count: usage.UsageCount}
		if p := catalog.FindPrinter(usage.PrinterID); p != nil {
			entry.Label = p.Name
			entry.Known = true
		}
		entries = append(entries, entry)
	}
	return rank(entries, n)
}

func rank(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
