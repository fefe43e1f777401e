package repositories

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
)

// FilamentRepository implements [models.Repository] for [models.Filament] spools.
type FilamentRepository struct {
	store *Store
}

// NewFilamentRepository creates a new [FilamentRepository] backed by the given store.
func NewFilamentRepository(store *Store) *FilamentRepository {
	return &FilamentRepository{store: store}
}

// Create assigns a new ID, validates and appends the spool, then saves the catalog.
//
// A save failure is returned but the spool stays in memory.
func (r *FilamentRepository) Create(filament *models.Filament) error {
	if err := filament.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	filament.ID = shared.GenerateID()
	catalog := r.store.Catalog()
	catalog.Filaments = append(catalog.Filaments, filament)

	r.store.logger.Info("filament added", "id", filament.ID, "type", filament.Type, "color", filament.Color)
	return r.store.SaveCatalog()
}

// Get retrieves a spool by ID.
func (r *FilamentRepository) Get(id string) (*models.Filament, error) {
	canonical, err := shared.ParseID(id)
	if err != nil {
		return nil, err
	}

	filament := r.store.Catalog().FindFilament(canonical)
	if filament == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrFilamentNotFound, canonical)
	}
	return filament, nil
}

// Delete removes a spool by ID and saves the catalog. Usage counters referring to it are kept.
func (r *FilamentRepository) Delete(id string) error {
	filament, err := r.Get(id)
	if err != nil {
		return err
	}

	r.store.Catalog().RemoveFilament(filament.ID)
	r.store.logger.Info("filament removed", "id", filament.ID)
	return r.store.SaveCatalog()
}

// List returns all spools ordered by type, then color.
func (r *FilamentRepository) List() []*models.Filament {
	filaments := slices.Clone(r.store.Catalog().Filaments)
	slices.SortStableFunc(filaments, func(a, b *models.Filament) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Type), strings.ToLower(b.Type)),
			cmp.Compare(strings.ToLower(a.Color), strings.ToLower(b.Color)),
		)
	})
	return filaments
}

// Restock adds grams to an existing spool and saves the catalog.
func (r *FilamentRepository) Restock(id string, grams float64) (*models.Filament, error) {
	if grams <= 0 {
		return nil, fmt.Errorf("%w: grams must be positive", shared.ErrInvalidInput)
	}

	filament, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	filament.RemainingGrams += grams
	r.store.logger.Info("filament restocked", "id", filament.ID, "added", grams, "remaining", filament.RemainingGrams)
	return filament, r.store.SaveCatalog()
}
