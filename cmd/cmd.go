// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// newApp builds the root command with the global flags and every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spoolr",
		Usage:   "Track filament spools, printers and print usage",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: r.register(),
	}
}

// adminFlags are the credentials privileged commands check before running.
func adminFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "as",
			Usage: "Administrator username",
		},
		&cli.StringFlag{
			Name:  "as-password",
			Usage: "Administrator password",
		},
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "username",
			Aliases:  []string{"u"},
			Usage:    "Account username",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password",
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// setupCommand writes the config template and initializes both documents.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the catalog and statistics documents",
		Action: r.Setup,
	}
}

// registerCommand creates a regular account.
func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Register a new user account",
		Flags:  credentialFlags(),
		Action: r.Register,
	}
}

// loginCommand verifies credentials and reports the account's role.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Check credentials and print the account role",
		Flags:  credentialFlags(),
		Action: r.Login,
	}
}

// filamentCommand handles spool operations
func filamentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "filament",
		Aliases: []string{"spool", "f"},
		Usage:   "Manage filament spools",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List spools sorted by type and color",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.FilamentList,
			},
			{
				Name:  "add",
				Usage: "Add a spool to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Material, e.g. PLA",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "color",
						Usage:    "Color name",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "diameter",
						Usage: "Filament diameter in millimetres",
						Value: 1.75,
					},
					&cli.FloatFlag{
						Name:     "grams",
						Usage:    "Mass on the spool in grams",
						Required: true,
					},
				},
				Action: r.FilamentAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a spool by ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Spool ID",
						Required: true,
					},
				},
				Action: r.FilamentRemove,
			},
			{
				Name:  "restock",
				Usage: "Add grams to an existing spool",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Spool ID",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "grams",
						Usage:    "Grams to add",
						Required: true,
					},
				},
				Action: r.FilamentRestock,
			},
		},
	}
}

// printerCommand handles printer operations
func printerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "printer",
		Aliases: []string{"p"},
		Usage:   "Manage printers",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List printers",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PrinterList,
			},
			{
				Name:  "add",
				Usage: "Add a printer to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Printer name, as used in usage files",
						Required: true,
					},
				},
				Action: r.PrinterAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a printer by ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Printer ID",
						Required: true,
					},
				},
				Action: r.PrinterRemove,
			},
		},
	}
}

// usageCommand applies usage submission files.
func usageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "usage",
		Usage: "Record filament usage from print jobs",
		Commands: []*cli.Command{
			{
				Name:  "apply",
				Usage: "Apply a key=value usage file to the inventory",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Validate and show the result without saving",
					},
					jsonFlag(),
				},
				Action: r.UsageApply,
			},
		},
	}
}

// statsCommand handles usage statistics.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Usage statistics",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the most used filaments and printers (admin)",
				Flags: append(adminFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Entries per leaderboard (defaults to stats.top_n)",
					},
					jsonFlag(),
				),
				Action: r.StatsShow,
			},
			{
				Name:   "reset",
				Usage:  "Clear every usage counter (admin)",
				Flags:  adminFlags(),
				Action: r.StatsReset,
			},
		},
	}
}

// usersCommand handles account administration.
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage user accounts (admin)",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List accounts",
				Flags:  append(adminFlags(), jsonFlag()),
				Action: r.UsersList,
			},
			{
				Name:  "create",
				Usage: "Create an account",
				Flags: append(append(adminFlags(), credentialFlags()...),
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Grant the administrator role",
					},
				),
				Action: r.UsersCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete an account",
				Flags: append(adminFlags(),
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account to delete",
						Required: true,
					},
				),
				Action: r.UsersDelete,
			},
		},
	}
}

// exportCommand writes the inventory to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the inventory and usage rankings as CSV, Markdown or plain text (admin)",
		Flags: append(adminFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "csv, markdown or text",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: inventory.<ext>)",
			},
		),
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}
