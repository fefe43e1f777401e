package tasks

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
)

// DiameterTolerance is the largest diameter difference, in millimetres, still treated as a match.
const DiameterTolerance = 0.001

// Store is the persistence surface the engine needs; [repositories.Store] implements it.
type Store interface {
	Catalog() *models.Catalog
	Statistics() *models.Statistics
	SaveCatalog() error
	SaveStatistics() error
}

// UsageResult describes a reconciled print job.
type UsageResult struct {
	Job           *models.PrintJob // Parsed submission
	Filament      *models.Filament // Matched spool, after the decrement when applied
	Printer       *models.Printer  // Matched printer
	PreviousGrams float64          // Spool mass before the job
	FilamentUses  int              // Filament usage counter after the job
	PrinterUses   int              // Printer usage counter after the job
	Applied       bool             // False for previews
	CatalogSaved  bool             // Catalog document written after the job
	StatsSaved    bool             // Statistics document written after the job
}

// UsageEngine matches print jobs to catalog entities and books their consumption.
type UsageEngine struct {
	store  Store
	logger *log.Logger
}

// NewUsageEngine creates a new UsageEngine over the given store.
func NewUsageEngine(store Store, logger *log.Logger) *UsageEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &UsageEngine{store: store, logger: logger}
}

// ApplyFile parses the submission file at path and applies it.
func (e *UsageEngine) ApplyFile(path string) (*UsageResult, error) {
	job, err := ParseJobFile(path)
	if err != nil {
		return nil, err
	}
	return e.Apply(job)
}

// Preview resolves and validates job without changing any state.
func (e *UsageEngine) Preview(job *models.PrintJob) (*UsageResult, error) {
	filament, printer, err := e.resolve(job)
	if err != nil {
		return nil, err
	}

	stats := e.store.Statistics()
	return &UsageResult{
		Job:           job,
		Filament:      filament,
		Printer:       printer,
		PreviousGrams: filament.RemainingGrams,
		FilamentUses:  stats.FilamentCount(filament.ID),
		PrinterUses:   stats.PrinterCount(printer.ID),
	}, nil
}

// Apply books job against the catalog.
//
// Resolution and stock failures leave all state unchanged. Once validated, the spool is
// decremented and both counters are incremented in memory, then the catalog and statistics
// documents are saved in that order. Save failures are returned joined together alongside the
// result; the in-memory update is kept.
func (e *UsageEngine) Apply(job *models.PrintJob) (*UsageResult, error) {
	filament, printer, err := e.resolve(job)
	if err != nil {
		e.logger.Warn("usage rejected", "error", err)
		return nil, err
	}

	stats := e.store.Statistics()
	result := &UsageResult{
		Job:           job,
		Filament:      filament,
		Printer:       printer,
		PreviousGrams: filament.RemainingGrams,
		Applied:       true,
	}

	filament.RemainingGrams -= job.AmountGrams
	result.FilamentUses = stats.IncrementFilament(filament.ID)
	result.PrinterUses = stats.IncrementPrinter(printer.ID)

	e.logger.Info("usage applied",
		"filament", filament.ID,
		"printer", printer.ID,
		"grams", job.AmountGrams,
		"remaining", filament.RemainingGrams,
	)

	catalogErr := e.store.SaveCatalog()
	statsErr := e.store.SaveStatistics()
	result.CatalogSaved = catalogErr == nil
	result.StatsSaved = statsErr == nil
	return result, errors.Join(catalogErr, statsErr)
}

func (e *UsageEngine) resolve(job *models.PrintJob) (*models.Filament, *models.Printer, error) {
	if job == nil {
		return nil, nil, fmt.Errorf("%w: nil print job", shared.ErrInvalidInput)
	}

	catalog := e.store.Catalog()

	filament := FindFilament(catalog, job.FilamentType, job.Color, job.Diameter)
	if filament == nil {
		return nil, nil, fmt.Errorf("%w: %s | %s | Ø %gmm", shared.ErrFilamentNotFound, job.FilamentType, job.Color, job.Diameter)
	}

	printer := catalog.FindPrinterByName(job.PrinterName)
	if printer == nil {
		return nil, nil, fmt.Errorf("%w: %s", shared.ErrPrinterNotFound, job.PrinterName)
	}

	if filament.RemainingGrams < job.AmountGrams {
		return nil, nil, fmt.Errorf("%w: %gg required, %gg remaining on %s",
			shared.ErrInsufficientStock, job.AmountGrams, filament.RemainingGrams, filament.Label())
	}

	return filament, printer, nil
}

// FindFilament returns the first spool matching type and color ignoring case with a diameter within
// [DiameterTolerance], or nil.
func FindFilament(catalog *models.Catalog, filamentType, color string, diameter float64) *models.Filament {
	for _, f := range catalog.Filaments {
		if strings.EqualFold(f.Type, filamentType) &&
			strings.EqualFold(f.Color, color) &&
			math.Abs(f.Diameter-diameter) < DiameterTolerance {
			return f
		}
	}
	return nil
}
