package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// UsersList lists directory users.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.directory.UserController()
	if s := cmd.String("search"); s != "" {
		ctrl.SetFilter("search", s)
	}

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(snap.Items)))
	for _, u := range snap.Items {
		r.writePlain("%s  %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}

// RolesList lists grantable roles.
func (r *Runner) RolesList(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.directory.RoleController()

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}

	snap := ctrl.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Roles (%d)", len(snap.Items)))
	for _, role := range snap.Items {
		r.writePlain("%s  %s  %s\n", role.ID, role.Name, role.Description)
	}
	return nil
}

// RolesMatrix prints the full user x role assignment grid.
func (r *Runner) RolesMatrix(ctx context.Context, cmd *cli.Command) error {
	matrix, err := r.directory.LoadMatrix(ctx)
	if err != nil {
		return fmt.Errorf("failed to load role matrix: %w", err)
	}

	r.writePlainHeader("User Roles")

	r.writePlain("%-24s", "")
	for _, role := range matrix.Roles {
		r.writePlain("%-16s", role.Name)
	}
	r.writePlain("\n")

	for _, user := range matrix.Users {
		r.writePlain("%-24s", user.Name)
		for _, role := range matrix.Roles {
			mark := "·"
			if matrix.Toggle.Has(user.ID, role.ID) {
				mark = "✓"
			}
			r.writePlain("%-16s", mark)
		}
		r.writePlain("\n")
	}
	return nil
}

// RolesGrant assigns a role to a user.
func (r *Runner) RolesGrant(ctx context.Context, cmd *cli.Command) error {
	userID, roleID := cmd.String("user"), cmd.String("role")

	if err := r.directory.AssignRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}

	r.writePlain("✓ Granted %s to %s\n", roleID, userID)
	return nil
}

// RolesRevoke removes a role from a user.
func (r *Runner) RolesRevoke(ctx context.Context, cmd *cli.Command) error {
	userID, roleID := cmd.String("user"), cmd.String("role")

	if err := r.directory.RemoveRole(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	r.writePlain("✓ Revoked %s from %s\n", roleID, userID)
	return nil
}
