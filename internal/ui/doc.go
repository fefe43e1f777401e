// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through the inventory workflow:
//  1. [LoginView] : Sign in, or register a regular account (ctrl+r toggles)
//  2. [MenuView] : Role-routed menu; administrators also see user management
//  3. [FilamentView] and [PrinterView] : Browse the catalog
//  4. [UsageView] : Submit a usage file by path and see the reconciled stock
//  5. [StatsView] : Most used filaments and printers
//  6. [UserView] : List and delete accounts (admins only)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results of
// core calls via the Msg union type. Failed logins draw from a [rate.Limiter]; once it is empty, further
// attempts are refused until it refills.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed
// via charmbracelet/bubbles/help.
package ui
