// Package tasks turns usage submission files into stock changes.
//
// # Job files
//
// [ParseJobFile] reads a text file of key=value lines into a [models.PrintJob]. Keys are
// case-insensitive, blank lines and lines without '=' are skipped and later keys overwrite earlier
// ones. The required fields are resolved in a fixed order and the first problem is reported as a
// [*FieldError] wrapping either [shared.ErrMissingField] or [shared.ErrInvalidNumber]:
//
//	filamenttype (or type), color, diameter, amountgrams, printer
//
// # Reconciliation
//
// [UsageEngine.Apply] matches the job against the catalog and, when the spool holds enough
// filament, decrements it and bumps both usage counters:
//
//  1. Filament: type and color ignoring case, diameter within [DiameterTolerance]
//  2. Printer: name ignoring case
//  3. Stock: remaining grams must be at least the job amount; equality drains the spool to zero
//
// Any failure in steps 1-3 leaves the catalog and statistics untouched. After the in-memory update
// the catalog document and then the statistics document are saved. The saves are independent: a
// failed statistics save does not undo the catalog save.
//
// # Leaderboards
//
// [TopFilaments] and [TopPrinters] rank usage counters. Counters whose entity was deleted are
// labelled [UnknownFilament] or [UnknownPrinter].
package tasks
