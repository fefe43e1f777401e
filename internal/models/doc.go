// Package models defines the domain entities persisted by spoolr.
//
// The package contains three categories of types:
//
// 1. Catalog entities, persisted together in the catalog document
//   - [User] : Account with clear-text password and [Role]
//   - [Filament] : One spool of filament with its remaining mass
//   - [Printer] : A named 3D printer
//
// 2. Usage counters, persisted in the statistics document
//   - [FilamentUsage] : How often a filament was consumed by a print job
//   - [PrinterUsage] : How often a printer ran a print job
//
// 3. Transient values
//   - [PrintJob] : Parsed contents of a usage submission file
//
// [Catalog] and [Statistics] are the two aggregates written to disk. JSON field names are
// PascalCase so documents written by earlier releases stay readable.
//
// Passwords are stored in clear text and the default administrator uses fixed credentials.
// A deployment outside a single trusted workstation must replace both with salted hashing.
package models
