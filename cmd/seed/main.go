package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"profileauth/internal/app"
	"profileauth/internal/config"
	"profileauth/internal/db"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/logger"
	"profileauth/internal/model"
	"profileauth/internal/service"
)

// seedUser is a demo account created by the seeder.
type seedUser struct {
	Username string
	Email    string
	Password string
	Role     string
}

var demoUsers = []seedUser{
	{Username: "admin", Email: "admin@example.com", Password: "Admin1$", Role: model.RoleAdmin},
	{Username: "user1", Email: "user1@example.com", Password: "User1$", Role: model.RoleUser},
	{Username: "user2", Email: "user2@example.com", Password: "User2$", Role: model.RoleUser},
}

func main() {
	purge := flag.Bool("purge", false, "delete the demo users instead of creating them")
	resetPasswords := flag.Bool("reset-passwords", false, "restore the default password of demo users that already exist")
	flag.Parse()

	logger.Infof("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), os.Stderr)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, false)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Errorf("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	profiles := app.NewCache(cfg)
	store := app.NewCredentialStore(gormDB, cfg, profiles)
	err = run(context.Background(), store, *purge, *resetPasswords)
	_ = profiles.Close()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, store service.CredentialStore, purge, resetPasswords bool) error {
	if purge {
		removed, err := purgeUsers(ctx, store, demoUsers)
		if err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}
		logger.Infof("Removed %d demo users", removed)
		return nil
	}

	created, existing, err := seedUsers(ctx, store, demoUsers, resetPasswords)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	logger.Infof("Seed completed successfully!")
	logger.Infof("  - New users created: %d", created)
	logger.Infof("  - Existing users kept: %d", existing)

	for _, role := range []string{model.RoleAdmin, model.RoleUser} {
		report, err := roleReport(ctx, store, role)
		if err != nil {
			return fmt.Errorf("list role %s: %w", role, err)
		}
		logger.Infof("%s", report)
	}

	all, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	logger.Infof("Users total: %d", len(all))
	return nil
}

// seedUsers creates each missing user, keyed by email, in its role only. Users
// that already exist are added to their role and, when resetPasswords is set,
// get their default password back.
func seedUsers(ctx context.Context, store service.CredentialStore, users []seedUser, resetPasswords bool) (created, existing int, err error) {
	for _, u := range users {
		user, err := store.FindByEmail(ctx, u.Email)
		switch {
		case err == nil:
			existing++
			if resetPasswords {
				if err := store.ResetPassword(ctx, user.ID, u.Password); err != nil {
					return created, existing, fmt.Errorf("reset %s: %w", u.Username, err)
				}
			}
		case errors.Is(err, apperrors.ErrNotFound):
			user, err = store.CreateInRoles(ctx, &model.User{Username: u.Username, Email: u.Email}, u.Password, u.Role)
			if err != nil {
				return created, existing, fmt.Errorf("create %s: %w", u.Username, err)
			}
			created++
		default:
			return created, existing, fmt.Errorf("check %s: %w", u.Email, err)
		}

		if err := store.AddToRole(ctx, user.ID, u.Role); err != nil {
			return created, existing, fmt.Errorf("add %s to %s: %w", u.Username, u.Role, err)
		}
	}
	return created, existing, nil
}

// purgeUsers deletes the seeded users that still exist.
func purgeUsers(ctx context.Context, store service.CredentialStore, users []seedUser) (int, error) {
	removed := 0
	for _, u := range users {
		user, err := store.FindByEmail(ctx, u.Email)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if err := store.Delete(ctx, user.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func roleReport(ctx context.Context, store service.CredentialStore, role string) (string, error) {
	members, err := store.UsersInRole(ctx, role)
	if err != nil {
		return "", err
	}
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Username
	}
	return fmt.Sprintf("Role %s: %d users [%s]", role, len(members), strings.Join(names, ", ")), nil
}
