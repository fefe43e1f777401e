// package repositories provides persistence layer implementations for all model types.
//
// Each repository works on the aggregates owned by a [Store] and shares its documents.
package repositories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/natefinch/atomic"
)

var (
	_ models.Repository[*models.Filament] = (*FilamentRepository)(nil)
	_ models.Repository[*models.Printer]  = (*PrinterRepository)(nil)
	_ models.Repository[*models.User]     = (*UserRepository)(nil)
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin"
)

// Store loads and saves the catalog and statistics documents.
type Store struct {
	catalogPath string
	statsPath   string
	catalog     *models.Catalog
	stats       *models.Statistics
	logger      *log.Logger
}

// NewStore creates a [Store] for the given document paths. Aggregates start empty until [Store.Load].
func NewStore(catalogPath, statsPath string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		catalogPath: catalogPath,
		statsPath:   statsPath,
		catalog:     models.NewCatalog(),
		stats:       models.NewStatistics(),
		logger:      logger,
	}
}

func (s *Store) Catalog() *models.Catalog       { return s.catalog }
func (s *Store) Statistics() *models.Statistics { return s.stats }
func (s *Store) CatalogPath() string            { return s.catalogPath }
func (s *Store) StatsPath() string              { return s.statsPath }

// Load reads both documents and then ensures a default administrator exists.
//
// Missing or blank files yield empty aggregates without error. A document that cannot be read or
// parsed is replaced by an empty aggregate and the failure is returned; Load still processes the
// other document and still runs [Store.EnsureDefaultAdmin]. Returned errors wrap
// [shared.ErrPersistenceRead] or [shared.ErrPersistenceWrite] and are never fatal.
func (s *Store) Load() error {
	var errs []error

	catalog := models.NewCatalog()
	if err := s.loadDocument(s.catalogPath, catalog); err != nil {
		errs = append(errs, err)
		catalog = models.NewCatalog()
	}
	catalog.Normalize()
	s.catalog = catalog

	stats := models.NewStatistics()
	if err := s.loadDocument(s.statsPath, stats); err != nil {
		errs = append(errs, err)
		stats = models.NewStatistics()
	}
	stats.Normalize()
	s.stats = stats

	if _, err := s.EnsureDefaultAdmin(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Debug("documents loaded",
		"users", len(s.catalog.Users),
		"filaments", len(s.catalog.Filaments),
		"printers", len(s.catalog.Printers),
	)

	return errors.Join(errs...)
}

// EnsureDefaultAdmin appends the default administrator when no user holds the admin role and
// persists the catalog immediately. It reports whether a user was added.
func (s *Store) EnsureDefaultAdmin() (bool, error) {
	if s.catalog.HasAdmin() {
		return false, nil
	}

	s.catalog.Users = append(s.catalog.Users, models.NewUser(DefaultAdminUsername, DefaultAdminPassword, models.RoleAdmin))
	s.logger.Warn("no administrator found, created default account", "username", DefaultAdminUsername)

	return true, s.SaveCatalog()
}

// SaveCatalog writes the catalog document.
func (s *Store) SaveCatalog() error {
	return s.saveDocument(s.catalogPath, s.catalog)
}

// SaveStatistics writes the statistics document.
func (s *Store) SaveStatistics() error {
	return s.saveDocument(s.statsPath, s.stats)
}

// ResetStatistics clears all usage counters and persists the statistics document. The catalog is untouched.
func (s *Store) ResetStatistics() error {
	s.stats.Reset()
	return s.SaveStatistics()
}

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

func (s *Store) loadDocument(path string, target any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("document not found, starting empty", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w %s: %v", shared.ErrPersistenceRead, path, err)
	}

	doc := bytes.TrimPrefix(data, byteOrderMark)
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil
	}

	if err := json.Unmarshal(doc, target); err != nil {
		s.preserveUnreadable(path, data)
		return fmt.Errorf("%w %s: %v", shared.ErrPersistenceRead, path, err)
	}

	return nil
}

// preserveUnreadable keeps a copy of a document that failed to parse, since the next save replaces it.
func (s *Store) preserveUnreadable(path string, data []byte) {
	backup := path + ".corrupt"
	if err := os.WriteFile(backup, data, 0644); err != nil {
		s.logger.Error("failed to preserve unreadable document", "path", path, "error", err)
		return
	}
	s.logger.Warn("unreadable document preserved", "path", path, "backup", backup)
}

func (s *Store) saveDocument(path string, data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w %s: failed to marshal JSON: %v", shared.ErrPersistenceWrite, path, err)
	}
	output = append(output, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w %s: %v", shared.ErrPersistenceWrite, path, err)
		}
	}

	if err := atomic.WriteFile(path, bytes.NewReader(output)); err != nil {
		s.logger.Error("failed to save document", "path", path, "error", err)
		return fmt.Errorf("%w %s: %v", shared.ErrPersistenceWrite, path, err)
	}

	s.logger.Debug("document saved", "path", path, "bytes", len(output))
	return nil
}
