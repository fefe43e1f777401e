package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spoolr/internal/models"
	"github.com/urfave/cli/v3"
)

type userView struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UsersList prints every account without passwords.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.authorize(cmd); err != nil {
		return err
	}

	users := r.users.ListUsers()
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{Username: u.Username, Role: u.Role.String()})
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(views)))
	for _, v := range views {
		r.writePlain("  %-20s %s\n", v.Username, v.Role)
	}
	return nil
}

// UsersCreate adds an account, optionally with the admin role.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.authorize(cmd); err != nil {
		return err
	}

	role := models.RoleUser
	if cmd.Bool("admin") {
		role = models.RoleAdmin
	}

	user, err := r.users.CreateUser(cmd.String("username"), cmd.String("password"), role)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Created %s\n", user)
}

// UsersDelete removes an account.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.authorize(cmd); err != nil {
		return err
	}

	username := cmd.String("username")
	if err := r.users.DeleteUser(username); err != nil {
		return err
	}

	if !r.store.Catalog().HasAdmin() {
		r.logger.Warn("no administrator left; the default account is re-created on next start")
	}
	return r.writePlain("✓ Deleted %s\n", username)
}
