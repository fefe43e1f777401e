package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// Register creates a regular account and saves the catalog.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	user, err := r.auth.Register(cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}

	if err := r.store.SaveCatalog(); err != nil {
		return err
	}

	return r.writePlain("✓ Registered %s\n", user)
}

// Login checks credentials and prints the account's role.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	user, err := r.auth.Login(cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Signed in as %s\n", user)
}
