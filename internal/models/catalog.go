package models

import (
	"slices"
	"strings"
)

// Catalog is the aggregate persisted as the catalog document.
type Catalog struct {
	Users     []*User     `json:"Users"`
	Filaments []*Filament `json:"Filaments"`
	Printers  []*Printer  `json:"Printers"`
}

// NewCatalog returns an empty [Catalog] with non-nil collections.
func NewCatalog() *Catalog {
	return &Catalog{Users: []*User{}, Filaments: []*Filament{}, Printers: []*Printer{}}
}

// Normalize replaces nil collections and drops nil entries left by hand-edited documents.
func (c *Catalog) Normalize() {
	c.Users = compact(c.Users)
	c.Filaments = compact(c.Filaments)
	c.Printers = compact(c.Printers)
}

// HasAdmin reports whether any user holds [RoleAdmin].
func (c *Catalog) HasAdmin() bool {
	return slices.ContainsFunc(c.Users, (*User).IsAdmin)
}

// FindUser returns the user whose name matches ignoring case, or nil.
func (c *Catalog) FindUser(username string) *User {
	i := slices.IndexFunc(c.Users, func(u *User) bool {
		return strings.EqualFold(u.Username, username)
	})
	if i < 0 {
		return nil
	}
	return c.Users[i]
}

// MatchUser returns the first user whose name matches ignoring case and whose password is equal, or nil.
func (c *Catalog) MatchUser(username, password string) *User {
	i := slices.IndexFunc(c.Users, func(u *User) bool {
		return strings.EqualFold(u.Username, username) && u.Password == password
	})
	if i < 0 {
		return nil
	}
	return c.Users[i]
}

// RemoveUser deletes the first user matching username ignoring case and reports whether one was removed.
func (c *Catalog) RemoveUser(username string) bool {
	i := slices.IndexFunc(c.Users, func(u *User) bool {
		return strings.EqualFold(u.Username, username)
	})
	if i < 0 {
		return false
	}
	c.Users = slices.Delete(c.Users, i, i+1)
	return true
}

// FindFilament returns the filament with the given ID, or nil.
func (c *Catalog) FindFilament(id string) *Filament {
	i := slices.IndexFunc(c.Filaments, func(f *Filament) bool { return f.ID == id })
	if i < 0 {
		return nil
	}
	return c.Filaments[i]
}

// RemoveFilament deletes the filament with the given ID and reports whether it existed.
func (c *Catalog) RemoveFilament(id string) bool {
	n := len(c.Filaments)
	c.Filaments = slices.DeleteFunc(c.Filaments, func(f *Filament) bool { return f.ID == id })
	return len(c.Filaments) != n
}

// FindPrinter returns the printer with the given ID, or nil.
func (c *Catalog) FindPrinter(id string) *Printer {
	i := slices.IndexFunc(c.Printers, func(p *Printer) bool { return p.ID == id })
	if i < 0 {
		return nil
	}
	return c.Printers[i]
}

// FindPrinterByName returns the first printer whose name matches ignoring case, or nil.
func (c *Catalog) FindPrinterByName(name string) *Printer {
	i := slices.IndexFunc(c.Printers, func(p *Printer) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return nil
	}
	return c.Printers[i]
}

// RemovePrinter deletes the printer with the given ID and reports whether it existed.
func (c *Catalog) RemovePrinter(id string) bool {
	n := len(c.Printers)
	c.Printers = slices.DeleteFunc(c.Printers, func(p *Printer) bool { return p.ID == id })
	return len(c.Printers) != n
}

// Statistics is the aggregate persisted as the statistics document.
type Statistics struct {
	FilamentUsage []*FilamentUsage `json:"FilamentUsage"`
	PrinterUsage  []*PrinterUsage  `json:"PrinterUsage"`
}

// NewStatistics returns empty [Statistics] with non-nil collections.
func NewStatistics() *Statistics {
	return &Statistics{FilamentUsage: []*FilamentUsage{}, PrinterUsage: []*PrinterUsage{}}
}

// Normalize replaces nil collections and drops nil entries.
func (s *Statistics) Normalize() {
	s.FilamentUsage = compact(s.FilamentUsage)
	s.PrinterUsage = compact(s.PrinterUsage)
}

// FilamentCount returns the usage count recorded for a filament, zero when absent.
func (s *Statistics) FilamentCount(id string) int {
	for _, e := range s.FilamentUsage {
		if e.FilamentID == id {
			return e.UsageCount
		}
	}
	return 0
}

// PrinterCount returns the usage count recorded for a printer, zero when absent.
func (s *Statistics) PrinterCount(id string) int {
	for _, e := range s.PrinterUsage {
		if e.PrinterID == id {
			return e.UsageCount
		}
	}
	return 0
}

// IncrementFilament bumps the filament's counter, creating it on first use, and returns the new count.
func (s *Statistics) IncrementFilament(id string) int {
	for _, e := range s.FilamentUsage {
		if e.FilamentID == id {
			e.UsageCount++
			return e.UsageCount
		}
	}
	s.FilamentUsage = append(s.FilamentUsage, &FilamentUsage{FilamentID: id, UsageCount: 1})
	return 1
}

// IncrementPrinter bumps the printer's counter, creating it on first use, and returns the new count.
func (s *Statistics) IncrementPrinter(id string) int {
	for _, e := range s.PrinterUsage {
		if e.PrinterID == id {
			e.UsageCount++
			return e.UsageCount
		}
	}
	s.PrinterUsage = append(s.PrinterUsage, &PrinterUsage{PrinterID: id, UsageCount: 1})
	return 1
}

// Reset clears both counter lists.
func (s *Statistics) Reset() {
	s.FilamentUsage = []*FilamentUsage{}
	s.PrinterUsage = []*PrinterUsage{}
}

func compact[T any](items []*T) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, item)
		}
	}
	return out
}
