// package models defines the data model for the filament inventory
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spoolr/internal/shared"
)

// Model defines the base interface for all persisted catalog entities.
type Model interface {
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

var (
	_ Model = (*User)(nil)
	_ Model = (*Filament)(nil)
	_ Model = (*Printer)(nil)
)

// Role is the permission level of a [User]. Serialized as an integer.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole accepts a role name (case-insensitive) or its numeric form.
func ParseRole(s string) (Role, error) {
	switch shared.NormalizeKey(s) {
	case "user", "0":
		return RoleUser, nil
	case "admin", "1":
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("%w: unknown role %q", shared.ErrInvalidInput, s)
	}
}

// User is an account. Usernames are unique ignoring case.
type User struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Role     Role   `json:"Role"`
}

// NewUser creates a [User] with the given credentials and role.
func NewUser(username, password string, role Role) *User {
	return &User{Username: username, Password: password, Role: role}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return fmt.Errorf("%w: unknown role %d", shared.ErrInvalidInput, int(u.Role))
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.Role)
}

// Filament is a single spool in stock.
type Filament struct {
	ID             string  `json:"Id"`
	Type           string  `json:"Type"`
	Color          string  `json:"Color"`
	Diameter       float64 `json:"Diameter"`
	RemainingGrams float64 `json:"RemainingGrams"`
}

// NewFilament creates an unsaved [Filament]; the ID is assigned on creation by the repository.
func NewFilament(filamentType, color string, diameter, grams float64) *Filament {
	return &Filament{Type: filamentType, Color: color, Diameter: diameter, RemainingGrams: grams}
}

func (f *Filament) Validate() error {
	switch {
	case strings.TrimSpace(f.Type) == "":
		return fmt.Errorf("%w: filament type is required", shared.ErrInvalidInput)
	case strings.TrimSpace(f.Color) == "":
		return fmt.Errorf("%w: filament color is required", shared.ErrInvalidInput)
	case f.Diameter <= 0:
		return fmt.Errorf("%w: diameter must be positive", shared.ErrInvalidInput)
	case f.RemainingGrams < 0:
		return fmt.Errorf("%w: remaining grams must not be negative", shared.ErrInvalidInput)
	}
	return nil
}

// Label identifies the spool without its stock level or ID.
func (f *Filament) Label() string {
	return fmt.Sprintf("%s | %s | Ø %gmm", f.Type, f.Color, f.Diameter)
}

func (f *Filament) String() string {
	return fmt.Sprintf("%s | %gg (Id: %s)", f.Label(), f.RemainingGrams, f.ID)
}

// Printer is a named machine that consumes filament.
type Printer struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// NewPrinter creates an unsaved [Printer].
func NewPrinter(name string) *Printer {
	return &Printer{Name: name}
}

func (p *Printer) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: printer name is required", shared.ErrInvalidInput)
	}
	return nil
}

func (p *Printer) String() string {
	return fmt.Sprintf("%s (Id: %s)", p.Name, p.ID)
}

// PrintJob describes filament consumed by one print, as read from a usage submission file.
type PrintJob struct {
	FilamentType string  `json:"FilamentType"`
	Color        string  `json:"Color"`
	Diameter     float64 `json:"Diameter"`
	AmountGrams  float64 `json:"AmountGrams"`
	PrinterName  string  `json:"PrinterName"`
}

// FilamentUsage counts successful print jobs per filament.
type FilamentUsage struct {
	FilamentID string `json:"FilamentId"`
	UsageCount int    `json:"UsageCount"`
}

// PrinterUsage counts successful print jobs per printer.
type PrinterUsage struct {
	PrinterID  string `json:"PrinterId"`
	UsageCount int    `json:"UsageCount"`
}

// Repository defines the data access operations shared by catalog repositories.
type Repository[T Model] interface {
	Create(model T) error     // Create adds a new model to the catalog
	Get(id string) (T, error) // Get retrieves a model by its key
	Delete(id string) error   // Delete removes a model by its key
	List() []T                // List returns all models
}
