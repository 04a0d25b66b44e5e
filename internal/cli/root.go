// Package cli implements the oraclectl command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LeJamon/goRadixOracle/internal/config"
	"github.com/LeJamon/goRadixOracle/internal/logging"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "0.1.0-dev"

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// app carries the global flags and the state initConfig derives from them.
type app struct {
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	cfg       *config.Config
	logger    *slog.Logger
	overrides collaborators
}

// newRootCmd builds the command tree.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oraclectl",
		Short: "oraclectl - Radix price oracle client",
		Long: `oraclectl drives a price oracle component on the Radix ledger. It composes
transaction manifests, hands them to a wallet for signing, tracks them to a
terminal status and decodes the committed receipts.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.initConfig(cmd.ErrOrStderr())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	rootCmd.AddCommand(
		newInstantiateCmd(a),
		newPriceCmd(a),
		newAccountsCmd(a),
		newServeCmd(a),
		newInitConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads the configuration file and ENV variables and builds the
// logger.
func (a *app) initConfig(logOut io.Writer) error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(logOut, cfg.Log, logging.Overrides{
		Debug:   a.debug,
		Verbose: a.verbose,
		Quiet:   a.quiet,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if path := cfg.GetConfigPath(); path != "" {
		logger.Debug("configuration loaded", "path", path)
	}
	return nil
}
