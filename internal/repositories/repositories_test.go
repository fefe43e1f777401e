package repositories

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/shared"
	th "github.com/desertthunder/spoolr/internal/testing"
)

// setupTestStore writes the fixture catalog into a temp dir and loads it.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	catalogPath := th.WriteJSON(t, dir, "data.json", th.FixtureCatalog())
	store := NewStore(catalogPath, filepath.Join(dir, "stats.json"), nil)

	if err := store.Load(); err != nil {
		t.Fatalf("failed to load test store: %v", err)
	}
	return store
}

func readCatalog(t *testing.T, path string) *models.Catalog {
	t.Helper()
	var catalog models.Catalog
	if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &catalog); err != nil {
		t.Fatalf("failed to parse catalog document: %v", err)
	}
	return &catalog
}

func TestStore(t *testing.T) {
	t.Run("Load with missing files", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(filepath.Join(dir, "data.json"), filepath.Join(dir, "stats.json"), nil)

		if err := store.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(store.Catalog().Filaments) != 0 || len(store.Catalog().Printers) != 0 {
			t.Error("expected empty catalog")
		}
		if len(store.Statistics().FilamentUsage) != 0 || len(store.Statistics().PrinterUsage) != 0 {
			t.Error("expected empty statistics")
		}

		th.AssertFileExists(t, store.CatalogPath())
		th.AssertFileNotExists(t, store.StatsPath())
	})

	t.Run("Load with blank files", func(t *testing.T) {
		dir := t.TempDir()
		catalogPath := th.WriteFile(t, dir, "data.json", "  \n\t")
		statsPath := th.WriteFile(t, dir, "stats.json", "")
		store := NewStore(catalogPath, statsPath, nil)

		if err := store.Load(); err != nil {
			t.Fatalf("blank documents should not error: %v", err)
		}
		if len(store.Catalog().Users) != 1 {
			t.Errorf("expected only the default admin, got %d users", len(store.Catalog().Users))
		}
	})

	t.Run("Default admin is created once", func(t *testing.T) {
		dir := t.TempDir()
		catalog := models.NewCatalog()
		catalog.Users = append(catalog.Users, models.NewUser("bob", "pw", models.RoleUser))
		catalogPath := th.WriteJSON(t, dir, "data.json", catalog)
		store := NewStore(catalogPath, filepath.Join(dir, "stats.json"), nil)

		if err := store.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var admins []*models.User
		for _, u := range store.Catalog().Users {
			if u.IsAdmin() {
				admins = append(admins, u)
			}
		}
		if len(admins) != 1 {
			t.Fatalf("expected exactly one admin, got %d", len(admins))
		}
		if admins[0].Username != "admin" || admins[0].Password != "admin" {
			t.Errorf("unexpected default admin %+v", admins[0])
		}

		persisted := readCatalog(t, catalogPath)
		if len(persisted.Users) != 2 || !persisted.HasAdmin() {
			t.Errorf("catalog document should include the default admin, got %+v", persisted.Users)
		}

		if err := store.Load(); err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if len(store.Catalog().Users) != 2 {
			t.Errorf("reload should not add another admin, got %d users", len(store.Catalog().Users))
		}
	})

	t.Run("Existing admin is left alone", func(t *testing.T) {
		store := setupTestStore(t)

		added, err := store.EnsureDefaultAdmin()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if added {
			t.Error("admin should not be added when one exists")
		}
		if store.Catalog().FindUser("admin") != nil {
			t.Error("default admin should not be present")
		}
	})

	t.Run("Round trip preserves every field", func(t *testing.T) {
		store := setupTestStore(t)
		store.Statistics().IncrementFilament(th.FixtureFilamentID)
		store.Statistics().IncrementPrinter(th.FixturePrinterID)
		store.Catalog().Filaments[0].RemainingGrams = 123.456

		if err := store.SaveCatalog(); err != nil {
			t.Fatalf("save catalog failed: %v", err)
		}
		if err := store.SaveStatistics(); err != nil {
			t.Fatalf("save statistics failed: %v", err)
		}

		reloaded := NewStore(store.CatalogPath(), store.StatsPath(), nil)
		if err := reloaded.Load(); err != nil {
			t.Fatalf("reload failed: %v", err)
		}

		if !reflect.DeepEqual(store.Catalog(), reloaded.Catalog()) {
			t.Errorf("catalog mismatch after round trip:\n got %+v\nwant %+v", reloaded.Catalog(), store.Catalog())
		}
		if !reflect.DeepEqual(store.Statistics(), reloaded.Statistics()) {
			t.Errorf("statistics mismatch after round trip")
		}
	})

	t.Run("Load is idempotent", func(t *testing.T) {
		store := setupTestStore(t)

		if err := store.Load(); err != nil {
			t.Fatalf("first load failed: %v", err)
		}
		first, firstStats := store.Catalog(), store.Statistics()

		if err := store.Load(); err != nil {
			t.Fatalf("second load failed: %v", err)
		}

		if !reflect.DeepEqual(first, store.Catalog()) || !reflect.DeepEqual(firstStats, store.Statistics()) {
			t.Error("loading twice should yield equal aggregates")
		}
	})

	t.Run("Documents are indented with stable field names", func(t *testing.T) {
		store := setupTestStore(t)
		store.Statistics().IncrementPrinter(th.FixturePrinterID)
		if err := store.SaveStatistics(); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		catalog := th.MustReadFile(t, store.CatalogPath())
		for _, want := range []string{`  "Users": [`, `"Filaments": [`, `"Printers": [`, `"RemainingGrams": 500`, `"Role": 1`, `"Id": "` + th.FixtureFilamentID + `"`} {
			if !strings.Contains(catalog, want) {
				t.Errorf("catalog document missing %q:\n%s", want, catalog)
			}
		}

		stats := th.MustReadFile(t, store.StatsPath())
		for _, want := range []string{`"FilamentUsage": []`, `"PrinterUsage": [`, `"PrinterId": "` + th.FixturePrinterID + `"`, `"UsageCount": 1`} {
			if !strings.Contains(stats, want) {
				t.Errorf("statistics document missing %q:\n%s", want, stats)
			}
		}
	})

	t.Run("Corrupt catalog is reported and preserved", func(t *testing.T) {
		dir := t.TempDir()
		catalogPath := th.WriteFile(t, dir, "data.json", "{not json")
		store := NewStore(catalogPath, filepath.Join(dir, "stats.json"), nil)

		err := store.Load()
		if !errors.Is(err, shared.ErrPersistenceRead) {
			t.Fatalf("expected ErrPersistenceRead, got %v", err)
		}

		if len(store.Catalog().Users) != 1 || !store.Catalog().HasAdmin() {
			t.Error("expected empty catalog with default admin")
		}
		if got := th.MustReadFile(t, catalogPath+".corrupt"); got != "{not json" {
			t.Errorf("unexpected backup content %q", got)
		}
	})

	t.Run("Documents with a byte order mark are read", func(t *testing.T) {
		dir := t.TempDir()
		data, err := json.Marshal(th.FixtureCatalog())
		if err != nil {
			t.Fatalf("failed to marshal fixture: %v", err)
		}
		catalogPath := th.WriteFile(t, dir, "data.json", "\ufeff"+string(data))
		statsPath := th.WriteFile(t, dir, "stats.json", "\ufeff{\"FilamentUsage\":[],\"PrinterUsage\":[]}")
		store := NewStore(catalogPath, statsPath, nil)

		if err := store.Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.Catalog().FindUser("root") == nil {
			t.Error("expected root to survive loading")
		}
		if len(store.Catalog().Filaments) != 1 {
			t.Errorf("expected 1 filament, got %d", len(store.Catalog().Filaments))
		}
		th.AssertFileNotExists(t, catalogPath+".corrupt")
	})

	t.Run("Corrupt statistics do not affect the catalog", func(t *testing.T) {
		dir := t.TempDir()
		catalogPath := th.WriteJSON(t, dir, "data.json", th.FixtureCatalog())
		statsPath := th.WriteFile(t, dir, "stats.json", `{"FilamentUsage": 3}`)
		store := NewStore(catalogPath, statsPath, nil)

		err := store.Load()
		if !errors.Is(err, shared.ErrPersistenceRead) {
			t.Fatalf("expected ErrPersistenceRead, got %v", err)
		}
		if len(store.Catalog().Filaments) != 1 {
			t.Error("catalog should still load")
		}
		if store.Statistics().FilamentUsage == nil || len(store.Statistics().FilamentUsage) != 0 {
			t.Error("statistics should be empty")
		}
	})

	t.Run("Write failure is reported", func(t *testing.T) {
		dir := t.TempDir()
		blocker := th.WriteFile(t, dir, "blocker", "x")
		store := NewStore(filepath.Join(blocker, "data.json"), filepath.Join(blocker, "stats.json"), nil)

		err := store.Load()
		if !errors.Is(err, shared.ErrPersistenceWrite) {
			t.Fatalf("expected ErrPersistenceWrite from default admin save, got %v", err)
		}
		if !store.Catalog().HasAdmin() {
			t.Error("in-memory admin should remain after failed save")
		}

		if err := store.SaveStatistics(); !errors.Is(err, shared.ErrPersistenceWrite) {
			t.Errorf("expected ErrPersistenceWrite, got %v", err)
		}
	})

	t.Run("Save creates parent directories", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(filepath.Join(dir, "nested", "data.json"), filepath.Join(dir, "nested", "stats.json"), nil)

		if err := store.SaveStatistics(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		th.AssertFileExists(t, store.StatsPath())
	})

	t.Run("ResetStatistics leaves the catalog alone", func(t *testing.T) {
		store := setupTestStore(t)
		store.Statistics().IncrementFilament(th.FixtureFilamentID)
		before := th.MustReadFile(t, store.CatalogPath())

		if err := store.ResetStatistics(); err != nil {
			t.Fatalf("reset failed: %v", err)
		}

		if len(store.Statistics().FilamentUsage) != 0 {
			t.Error("expected counters cleared")
		}
		if th.MustReadFile(t, store.CatalogPath()) != before {
			t.Error("catalog document should be unchanged")
		}
		if !strings.Contains(th.MustReadFile(t, store.StatsPath()), `"FilamentUsage": []`) {
			t.Error("statistics document should be empty")
		}
	})
}

func TestFilamentRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewFilamentRepository(store)
		filament := models.NewFilament("PETG", "blue", 1.75, 1000)

		if err := repo.Create(filament); err != nil {
			t.Fatalf("failed to create filament: %v", err)
		}

		if filament.ID == "" {
			t.Error("filament ID should be set after creation")
		}
		persisted := readCatalog(t, store.CatalogPath())
		if persisted.FindFilament(filament.ID) == nil {
			t.Error("filament should be persisted")
		}
	})

	t.Run("Create rejects invalid spools", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewFilamentRepository(store)

		err := repo.Create(models.NewFilament("PLA", "red", -1, 100))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if len(store.Catalog().Filaments) != 1 {
			t.Error("invalid spool should not be added")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewFilamentRepository(setupTestStore(t))

		filament, err := repo.Get(strings.ToUpper(th.FixtureFilamentID))
		if err != nil {
			t.Fatalf("failed to get filament: %v", err)
		}
		if filament.Type != "PLA" {
			t.Errorf("unexpected filament %+v", filament)
		}

		if _, err := repo.Get("garbage"); !errors.Is(err, shared.ErrInvalidID) {
			t.Errorf("expected ErrInvalidID, got %v", err)
		}
		if _, err := repo.Get(shared.GenerateID()); !errors.Is(err, shared.ErrFilamentNotFound) {
			t.Errorf("expected ErrFilamentNotFound, got %v", err)
		}
	})

	t.Run("Delete keeps usage counters", func(t *testing.T) {
		store := setupTestStore(t)
		store.Statistics().IncrementFilament(th.FixtureFilamentID)
		repo := NewFilamentRepository(store)

		if err := repo.Delete(th.FixtureFilamentID); err != nil {
			t.Fatalf("failed to delete filament: %v", err)
		}

		if len(store.Catalog().Filaments) != 0 {
			t.Error("filament should be removed")
		}
		if store.Statistics().FilamentCount(th.FixtureFilamentID) != 1 {
			t.Error("usage counter should survive deletion")
		}
		if err := repo.Delete(th.FixtureFilamentID); !errors.Is(err, shared.ErrFilamentNotFound) {
			t.Errorf("expected ErrFilamentNotFound on second delete, got %v", err)
		}
	})

	t.Run("List orders by type then color", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewFilamentRepository(store)
		for _, f := range []*models.Filament{
			models.NewFilament("PETG", "black", 1.75, 1),
			models.NewFilament("ABS", "white", 1.75, 1),
			models.NewFilament("PLA", "blue", 1.75, 1),
		} {
			if err := repo.Create(f); err != nil {
				t.Fatalf("create failed: %v", err)
			}
		}

		var got []string
		for _, f := range repo.List() {
			got = append(got, f.Type+"/"+f.Color)
		}
		want := []string{"ABS/white", "PETG/black", "PLA/blue", "PLA/red"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() order = %v, want %v", got, want)
		}
		if store.Catalog().Filaments[0].Type != "PLA" {
			t.Error("List should not reorder the catalog")
		}
	})

	t.Run("Restock", func(t *testing.T) {
		repo := NewFilamentRepository(setupTestStore(t))

		filament, err := repo.Restock(th.FixtureFilamentID, 250)
		if err != nil {
			t.Fatalf("restock failed: %v", err)
		}
		if filament.RemainingGrams != 750 {
			t.Errorf("expected 750g, got %g", filament.RemainingGrams)
		}

		if _, err := repo.Restock(th.FixtureFilamentID, 0); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestPrinterRepository(t *testing.T) {
	t.Run("Create and List", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewPrinterRepository(store)

		if err := repo.Create(models.NewPrinter("Prusa MK4")); err != nil {
			t.Fatalf("failed to create printer: %v", err)
		}

		printers := repo.List()
		if len(printers) != 2 || printers[1].Name != "Prusa MK4" {
			t.Errorf("unexpected printers %v", printers)
		}
		if readCatalog(t, store.CatalogPath()).FindPrinterByName("prusa mk4") == nil {
			t.Error("printer should be persisted")
		}
	})

	t.Run("Create rejects blank names", func(t *testing.T) {
		repo := NewPrinterRepository(setupTestStore(t))

		if err := repo.Create(models.NewPrinter("   ")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Get and Delete", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewPrinterRepository(store)

		printer, err := repo.Get(th.FixturePrinterID)
		if err != nil || printer.Name != "Ender3" {
			t.Fatalf("unexpected get result %v, %v", printer, err)
		}

		if err := repo.Delete(th.FixturePrinterID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := repo.Get(th.FixturePrinterID); !errors.Is(err, shared.ErrPrinterNotFound) {
			t.Errorf("expected ErrPrinterNotFound, got %v", err)
		}
	})
}

func TestUserRepository(t *testing.T) {
	t.Run("Create enforces case-insensitive uniqueness", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewUserRepository(store)

		if err := repo.Create(models.NewUser("Alice", "pw", models.RoleUser)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		err := repo.Create(models.NewUser("alice", "other", models.RoleUser))
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Fatalf("expected ErrDuplicateUsername, got %v", err)
		}
		if len(repo.List()) != 2 {
			t.Errorf("expected 2 users, got %d", len(repo.List()))
		}
	})

	t.Run("Create does not persist", func(t *testing.T) {
		store := setupTestStore(t)
		repo := NewUserRepository(store)

		if err := repo.Create(models.NewUser("carol", "pw", models.RoleUser)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if readCatalog(t, store.CatalogPath()).FindUser("carol") != nil {
			t.Error("user should not be persisted before Save")
		}
		if err := repo.Save(); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if readCatalog(t, store.CatalogPath()).FindUser("carol") == nil {
			t.Error("user should be persisted after Save")
		}
	})

	t.Run("Get and Delete ignore case", func(t *testing.T) {
		repo := NewUserRepository(setupTestStore(t))

		if _, err := repo.Get("ROOT"); err != nil {
			t.Fatalf("expected to find root: %v", err)
		}
		if err := repo.Delete("Root"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := repo.Get("root"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
		if err := repo.Delete("root"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
