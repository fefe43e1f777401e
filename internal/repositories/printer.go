package repositories

import (
	"fmt"
	"slices"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
)

// PrinterRepository implements [models.Repository] for [models.Printer].
type PrinterRepository struct {
	store *Store
}

// NewPrinterRepository creates a new [PrinterRepository] backed by the given store.
func NewPrinterRepository(store *Store) *PrinterRepository {
	return &PrinterRepository{store: store}
}

// Create assigns a new ID, validates and appends the printer, then saves the catalog.
func (r *PrinterRepository) Create(printer *models.Printer) error {
	if err := printer.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	printer.ID = shared.GenerateID()
	catalog := r.store.Catalog()
	catalog.Printers = append(catalog.Printers, printer)

	r.store.logger.Info("printer added", "id", printer.ID, "name", printer.Name)
	return r.store.SaveCatalog()
}

// Get retrieves a printer by ID.
func (r *PrinterRepository) Get(id string) (*models.Printer, error) {
	canonical, err := shared.ParseID(id)
	if err != nil {
		return nil, err
	}

	printer := r.store.Catalog().FindPrinter(canonical)
	if printer == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPrinterNotFound, canonical)
	}
	return printer, nil
}

// Delete removes a printer by ID and saves the catalog.
func (r *PrinterRepository) Delete(id string) error {
	printer, err := r.Get(id)
	if err != nil {
		return err
	}

	r.store.Catalog().RemovePrinter(printer.ID)
	r.store.logger.Info("printer removed", "id", printer.ID)
	return r.store.SaveCatalog()
}

// List returns all printers in insertion order.
func (r *PrinterRepository) List() []*models.Printer {
	return slices.Clone(r.store.Catalog().Printers)
}
