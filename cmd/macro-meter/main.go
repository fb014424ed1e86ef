package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"macro-meter/internal/config"
	"macro-meter/internal/logging"
	"macro-meter/internal/server"
	"macro-meter/internal/storage"
	"macro-meter/internal/tracker"
)

var (
	// Global flags
	configPath string
	dbPath     string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	store  *storage.SQLiteStorage
	app    *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "macro-meter",
	Short: "Track meals and daily macro goals",
	Long: `macro-meter keeps a local history of logged meals, totals each day's
calories, protein, carbs and fats, and compares them with your daily goals.

Data lives in a local SQLite file (see --db-path). Run "macro-meter serve"
to expose the same operations as HTTP tool calls.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db-path") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err = logging.New(cfg.LogLevel, cfg.LogJSON)
		if err != nil {
			return err
		}

		store, err = storage.NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		app = tracker.New(store, tracker.WithLogger(logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "macro-meter version %s\n", server.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "macro-meter.db", "Database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		versionCmd,
		serveCmd,
		logCmd,
		historyCmd,
		progressCmd,
		goalsCmd,
		profileCmd,
		settingsCmd,
		lookupCmd,
	)
}

// shutdown closes the store and flushes the logger. cobra skips
// PersistentPostRun when a command fails, so execute calls it as well.
func shutdown() {
	if store != nil {
		store.Close()
		store = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
