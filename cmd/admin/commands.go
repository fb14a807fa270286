package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/johnquangdev/magicscuts/internal/adapter/repository"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
	"github.com/johnquangdev/magicscuts/internal/infrastructure/database"
	"github.com/johnquangdev/magicscuts/pkg/config"
	"github.com/johnquangdev/magicscuts/pkg/jwt"
)

const commandTimeout = 5 * time.Minute

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administer a magicscuts deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(e),
		newUsersCmd(e),
		newCreditsCmd(e),
		newTokenCmd(e),
		newStorageCmd(e),
	)
	return root
}

// withDB loads the configuration, opens the database and hands both to fn
func (e *env) withDB(fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := e.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := e.openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.CloseDB(db)
	return fn(cfg, db)
}

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the schema migrations",
	}

	run := func(direction migrate.MigrationDirection, verb string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return e.withDB(func(_ *config.Config, db *gorm.DB) error {
				n, err := database.Migrate(db, e.dialect, direction)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d migration(s)\n", verb, n)
				return nil
			})
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", Args: cobra.NoArgs, RunE: run(migrate.Up, "applied")},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", Args: cobra.NoArgs, RunE: run(migrate.Down, "rolled back")},
	)
	return cmd
}

func newUsersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			credits, _ := cmd.Flags().GetInt("credits")
			premium, _ := cmd.Flags().GetBool("premium")
			if email == "" {
				return errors.New("--email is required")
			}
			if credits < 0 {
				return errors.New("--credits cannot be negative")
			}
			if name == "" {
				name = email
			}

			return e.withDB(func(_ *config.Config, db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				defer cancel()

				user := entities.NewUser(email, name, credits)
				user.IsPremium = premium
				if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s) with %d credit(s)\n", user.ID, user.Email, user.Credits)
				return nil
			})
		},
	}
	create.Flags().String("email", "", "Account email")
	create.Flags().String("name", "", "Display name, defaults to the email")
	create.Flags().Int("credits", 0, "Starting credit balance")
	create.Flags().Bool("premium", false, "Allow premium upload sizes")

	cmd.AddCommand(create)
	return cmd
}

func newCreditsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Manage credit balances",
	}

	grant := &cobra.Command{
		Use:   "grant <user-id> <amount>",
		Short: "Add credits to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			var amount int
			if _, err := fmt.Sscan(args[1], &amount); err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}

			return e.withDB(func(_ *config.Config, db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				defer cancel()

				users := repository.NewUserRepository(db)
				if err := users.AddCredits(ctx, userID, amount); err != nil {
					return err
				}
				balance, err := users.GetBalance(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s now has %d credit(s)\n", userID, balance.Credits)
				return nil
			})
		},
	}

	cmd.AddCommand(grant)
	return cmd
}

func newTokenCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue API tokens",
	}

	mint := &cobra.Command{
		Use:   "mint <email>",
		Short: "Print an access token for an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, _ := cmd.Flags().GetDuration("ttl")

			return e.withDB(func(cfg *config.Config, db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
				defer cancel()

				user, err := repository.NewUserRepository(db).FindByEmail(ctx, args[0])
				if err != nil {
					return err
				}
				manager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry, cfg.JWT.Issuer)
				token, err := manager.GenerateAccessToken(user.ID, user.Email, "user", ttl)
				if err != nil {
					return fmt.Errorf("sign token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	mint.Flags().Duration("ttl", 0, "Token lifetime, defaults to JWT_ACCESS_EXPIRY")

	cmd.AddCommand(mint)
	return cmd
}

func newStorageCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect stored media",
	}

	ls := &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List object keys, optionally under a prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := e.openStore(cfg)
			if err != nil {
				return fmt.Errorf("connect to storage: %w", err)
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			keys, err := store.ListFiles(ctx, prefix)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	cmd.AddCommand(ls)
	return cmd
}
