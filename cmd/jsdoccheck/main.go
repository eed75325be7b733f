package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/shaoshing/jscs-jsdoc/internal/config"
	"github.com/shaoshing/jscs-jsdoc/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "jsdoccheck",
		Short: "Report JavaScript functions that are missing a jsdoc comment",
	}
	configPath string
	dbPath     string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "jsdoc.yaml", "Path to the checker configuration")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the run history database (SQLite); overrides storage.path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Trace why functions are skipped")

	historyCmd.Flags().IntP("limit", "n", 10, "Number of runs to show")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig reads the configuration and applies the persistent flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.JSDoc.Verbose = true
	}
	return cfg, nil
}

// newLogger returns the trace logger handed to the validator.
func newLogger(enabled bool) *slog.Logger {
	level := slog.LevelInfo
	if enabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// initStore opens the history database, or returns nil when none is configured.
func initStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	if cfg.Storage.Path == "" {
		return nil, nil
	}
	return storage.NewSQLiteStore(cfg.Storage.Path)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous check runs recorded in the database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("%v", err)
		}
		store, err := initStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if store == nil {
			log.Fatalf("No database configured. Use --db or storage.path in %s", configPath)
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("📭 No runs recorded yet.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %s  files=%d errors=%d violations=%d\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.ID, r.Root, r.Files, r.Errors, r.Violations)
		}
	},
}
