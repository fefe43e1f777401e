// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/spoolr/internal/models"
)

const (
	FixtureFilamentID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	FixturePrinterID  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FixtureCatalog returns a catalog with one admin, one red PLA spool (500g, 1.75mm) and one printer named Ender3.
func FixtureCatalog() *models.Catalog {
	catalog := models.NewCatalog()
	catalog.Users = append(catalog.Users, models.NewUser("root", "secret", models.RoleAdmin))
	catalog.Filaments = append(catalog.Filaments, &models.Filament{
		ID:             FixtureFilamentID,
		Type:           "PLA",
		Color:          "red",
		Diameter:       1.75,
		RemainingGrams: 500,
	})
	catalog.Printers = append(catalog.Printers, &models.Printer{ID: FixturePrinterID, Name: "Ender3"})
	return catalog
}

// WriteJSON marshals v with indentation and writes it to dir/name, returning the full path.
func WriteJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal %s: %v", name, err)
	}
	return WriteFile(t, dir, name, string(data))
}

// WriteFile writes content to dir/name, returning the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
