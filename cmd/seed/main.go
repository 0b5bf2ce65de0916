// Command seed holds developer tooling: schema migration, catalog import from
// XLSX and minting access tokens for local testing.
package main

import (
	"fmt"
	"os"

	"github.com/geekcommerce/geek-commerce-backend/config"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Developer tooling for the Geek Commerce backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connect loads configuration and opens the database.
func connect() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Initialize(logger.Config{
		Level:  "warn",
		Format: "console",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, nil
}
