package main

import (
	"context"
	"fmt"

	"github.com/roosthq/roost/internal/shared"
	"github.com/urfave/cli/v3"
)

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// AuthLogin signs in and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	r.logger.Info("signing in", "email", email)

	profile, err := r.client.Login(ctx, email, cmd.String("password"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Signed in as %s <%s>\n", profile.Name, profile.Email)
	return nil
}

// AuthRegister creates an account and persists the session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")

	r.logger.Info("registering account", "email", email)

	profile, err := r.client.Register(ctx, cmd.String("name"), email, cmd.String("password"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Account created for %s <%s>\n", profile.Name, profile.Email)
	return nil
}

// AuthStatus reports the stored session state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil || !r.store.Authenticated() {
		r.writePlain("✗ Not signed in\n")
		return nil
	}

	profile := r.store.Profile()
	r.writePlain("✓ Signed in as %s <%s>\n", profile.Name, profile.Email)

	if token := r.store.Token(); token != nil && !token.Expiry.IsZero() {
		if token.Valid() {
			r.writePlain("Token expires: %s\n", token.Expiry.Format("2006-01-02 15:04:05"))
		} else {
			r.writePlain("Token expired: will refresh on next request\n")
		}
	}
	return nil
}

// AuthLogout clears the session from disk and memory.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.store != nil {
		r.store.Clear()
	}
	r.writePlain("✓ Signed out\n")
	return nil
}
