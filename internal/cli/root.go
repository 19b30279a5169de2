// Package cli wires the mystery-boxes commands.
package cli

import (
	"os"

	"mystery_boxes/internal/config"
	"mystery_boxes/internal/logging"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	// LoadConfig defaults to config.Load. Replaced in tests.
	LoadConfig func() (*config.Config, error)
}

// NewRootCommand creates the root command for the mystery-boxes CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{LoadConfig: config.Load}

	cmd := &cobra.Command{
		Use:   "mystery-boxes",
		Short: "Mystery Boxes shop service",
		Long: `Sells the 26 mystery boxes A-Z: public price and board, box holds
with processor-backed checkout, webhook confirmation and an admin surface.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewAdminTokenCommand(opts))

	return cmd
}

// Execute runs the root command with os.Args.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

func (o *RootOptions) load() (*config.Config, logging.Logger, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return cfg, logging.New(os.Stderr, cfg.LogLevel), nil
}
