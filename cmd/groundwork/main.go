package main

import (
	"fmt"
	"os"

	"groundwork/internal/config"
	"groundwork/internal/logging"

	"github.com/spf13/cobra"
)

var (
	version   = "0.1.0"
	cfgFile   string
	verbose   bool
	logToFile bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "groundwork",
		Short: "Personal development toolkit",
		Long: `Groundwork bundles the small tools of daily development work:
watching project directories for changes, scaffolding new projects,
finding and rewriting files, and sizing directory trees.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/groundwork/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "write JSON logs to the config directory instead of the terminal")

	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newFindCmd())
	rootCmd.AddCommand(newReplaceCmd())
	rootCmd.AddCommand(newSizeCmd())
	rootCmd.AddCommand(newDocsCmd())

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("groundwork version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the configuration and configures logging for one
// command run.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		config.SetPath(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Version = version

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = logging.LevelDebug
	}
	logging.ConfigureConsole(level, os.Stderr)

	if logToFile || cfg.Logging.File {
		dir, err := config.EnsureConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare config directory: %w", err)
		}
		if err := logging.EnableFileLogging(dir, level); err != nil {
			return nil, fmt.Errorf("failed to enable file logging: %w", err)
		}
	}

	return cfg, nil
}
