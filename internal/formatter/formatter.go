// Package formatter renders the inventory and usage leaderboards as CSV, Markdown or plain text.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/tasks"
	"github.com/natefinch/atomic"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts a format name or its usual file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, s)
	}
}

// DefaultFilename is the output path used when none is given.
func (f Format) DefaultFilename() string {
	switch f {
	case FormatCSV:
		return "inventory.csv"
	case FormatMarkdown:
		return "inventory.md"
	default:
		return "inventory.txt"
	}
}

// Inventory is a snapshot of the catalog and its counters.
type Inventory struct {
	Catalog *models.Catalog
	Stats   *models.Statistics
	TopN    int // leaderboard length; non-positive means all
}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportToCSV writes one row per spool with columns: Id, Type, Color, Diameter, RemainingGrams, UsageCount
func ExportToCSV(inv *Inventory) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Id", "Type", "Color", "Diameter", "RemainingGrams", "UsageCount"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range inv.Catalog.Filaments {
		record := []string{
			f.ID,
			f.Type,
			f.Color,
			grams(f.Diameter),
			grams(f.RemainingGrams),
			strconv.Itoa(inv.Stats.FilamentCount(f.ID)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToMarkdown renders spools and printers as tables followed by both leaderboards.
func ExportToMarkdown(inv *Inventory) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Filament Inventory\n\n")
	fmt.Fprintf(&buf, "**Spools**: %d\n", len(inv.Catalog.Filaments))
	fmt.Fprintf(&buf, "**Printers**: %d\n\n", len(inv.Catalog.Printers))

	buf.WriteString("## Spools\n\n")
	buf.WriteString("| Type | Color | Diameter (mm) | Remaining (g) | Uses |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, f := range inv.Catalog.Filaments {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %d |\n",
			escapeCell(f.Type), escapeCell(f.Color), grams(f.Diameter), grams(f.RemainingGrams), inv.Stats.FilamentCount(f.ID))
	}

	buf.WriteString("\n## Printers\n\n")
	buf.WriteString("| Name | Uses |\n")
	buf.WriteString("|---|---|\n")
	for _, p := range inv.Catalog.Printers {
		fmt.Fprintf(&buf, "| %s | %d |\n", escapeCell(p.Name), inv.Stats.PrinterCount(p.ID))
	}

	writeRanking := func(title string, entries []tasks.LeaderboardEntry) {
		fmt.Fprintf(&buf, "\n## %s\n\n", title)
		if len(entries) == 0 {
			buf.WriteString("_No usage recorded._\n")
			return
		}
		for i, e := range entries {
			fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, e.Label, e.Count)
		}
	}
	writeRanking("Most used filaments", tasks.TopFilaments(inv.Catalog, inv.Stats, inv.TopN))
	writeRanking("Most used printers", tasks.TopPrinters(inv.Catalog, inv.Stats, inv.TopN))

	return buf.Bytes(), nil
}

// ExportToText renders the inventory as plain text.
func ExportToText(inv *Inventory) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Spools: %d\n", len(inv.Catalog.Filaments))
	for _, f := range inv.Catalog.Filaments {
		fmt.Fprintf(&buf, "  %s\n", f)
	}

	fmt.Fprintf(&buf, "\nPrinters: %d\n", len(inv.Catalog.Printers))
	for _, p := range inv.Catalog.Printers {
		fmt.Fprintf(&buf, "  %s\n", p)
	}

	buf.WriteString("\n")
	buf.WriteString(FormatLeaderboard("Most used filaments", tasks.TopFilaments(inv.Catalog, inv.Stats, inv.TopN)))
	buf.WriteString("\n")
	buf.WriteString(FormatLeaderboard("Most used printers", tasks.TopPrinters(inv.Catalog, inv.Stats, inv.TopN)))

	return buf.Bytes(), nil
}

// FormatLeaderboard renders a numbered ranking under title.
func FormatLeaderboard(title string, entries []tasks.LeaderboardEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", title)
	if len(entries) == 0 {
		b.WriteString("  (no usage recorded)\n")
		return b.String()
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "  %d. %s - %d\n", i+1, e.Label, e.Count)
	}
	return b.String()
}

// Export encodes inv in the given format.
func Export(inv *Inventory, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(inv)
	case FormatMarkdown:
		return ExportToMarkdown(inv)
	case FormatText:
		return ExportToText(inv)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, format)
	}
}

// WriteExport encodes inv and atomically writes it to path, defaulting to [Format.DefaultFilename].
// It returns the path written.
func WriteExport(inv *Inventory, format Format, path string) (string, error) {
	if path == "" {
		path = format.DefaultFilename()
	}

	data, err := Export(inv, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}

	return path, nil
}
