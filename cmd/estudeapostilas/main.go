// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the EstudeApostilas server. The
// root command serves HTTP; migrate and seed prepare the database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"estudeapostilas/internal/config"
	"estudeapostilas/internal/database"
)

var cfg *config.Config

// rootCmd serves the storefront when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "estudeapostilas",
	Short: "EstudeApostilas storefront and admin API",
	Long: `EstudeApostilas serves the study-handout catalog, the admin API and
the study assistant.

Run without arguments to start the HTTP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the admin account and sample handouts",
	Long: `Creates the admin account and the sample catalog. Tables that
already hold data are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Seed(db, adminEmail()); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
		slog.Info("database seeded")
		return nil
	},
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup installs the logger and loads configuration for every command.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return nil
}

// openDatabase connects to PostgreSQL and applies pending migrations.
func openDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// adminEmail is the configured admin, or the seed default in development.
func adminEmail() string {
	if cfg.AdminEmail == "" && cfg.IsDev() {
		return database.DefaultAdminEmail
	}
	return cfg.AdminEmail
}
