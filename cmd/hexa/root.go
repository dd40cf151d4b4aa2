package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/hexa"
)

var (
	verbose    bool
	configPath string
	adapter    string
	storePath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hexa",
	Short: "An order service laid out as Ports & Adapters",
	Long: `hexa places, stores and announces orders. The application core never
changes; the storage, payment and notification adapters are picked at startup.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to hexa.yaml (default: looked up from the working directory)")
	rootCmd.PersistentFlags().StringVarP(&adapter, "adapter", "a", "", "Storage adapter (memory, fs, sqlite, postgres, bolt, badger, redis)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Adapter specific location: directory, file, DSN or address")
}

// loadConfig returns the explicit --config file, or hexa.yaml at the project
// root when there is one. The second value is the directory used as the
// default store location.
func loadConfig() (hexa.Config, string, error) {
	if configPath != "" {
		cfg, err := hexa.LoadConfig(configPath)
		return cfg, filepath.Dir(configPath), err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return hexa.Config{}, "", err
	}
	root, err := hexa.FindRoot(cwd)
	if err != nil {
		return hexa.Config{}, cwd, nil
	}
	cfg, err := hexa.LoadConfig(filepath.Join(root, hexa.ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return hexa.Config{}, root, nil
	}
	return cfg, root, err
}

// openInstance wires the service from config file and flags, flags winning.
func openInstance(cmd *cobra.Command, extra ...hexa.Option) *hexa.Instance {
	cfg, dir, err := loadConfig()
	if err != nil {
		fatal("Error loading config", err)
	}

	uri := storePath
	if uri == "" {
		uri = cfg.Path
	}
	if uri == "" {
		uri = dir
	}

	opts := []hexa.Option{
		hexa.WithConfig(cfg),
		hexa.WithLogger(slog.Default()),
		hexa.WithOutput(cmd.OutOrStdout()),
	}
	if adapter != "" {
		opts = append(opts, hexa.WithAdapter(adapter))
	}
	opts = append(opts, extra...)

	inst, err := hexa.New(context.Background(), uri, opts...)
	if err != nil {
		fatal("Error initializing hexa", err)
	}
	return inst
}
