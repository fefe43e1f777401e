// Package repositories implements JSON file persistence for all domain entities.
//
// The [Store] owns the two aggregates for the lifetime of the process:
//   - the catalog document (users, filaments, printers)
//   - the statistics document (filament and printer usage counters)
//
// Documents are loaded once with [Store.Load] and written back explicitly with [Store.SaveCatalog]
// and [Store.SaveStatistics]. There is no autosave. Each write replaces the file atomically, so a
// crash during one write never corrupts the other document. The two documents are not linked
// transactionally: a crash between the two saves leaves counters and stock out of step.
//
// Key Implementations:
//   - [FilamentRepository] : Spool CRUD with restocking, persisted on every change
//   - [PrinterRepository] : Printer CRUD, persisted on every change
//   - [UserRepository] : In-memory user lookups; callers decide when to persist
package repositories
