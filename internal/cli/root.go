package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/config"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/logging"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/storage"
)

var (
	cfgFile string
	cfg     config.Config
	log     *zap.SugaredLogger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "memory-engine",
	Short: "Scoped memory graph and permission engine for assistant tool dispatch",
	Long: `memory-engine persists a per-user, per-project knowledge graph of facts an
assistant has learned, and gates connector-backed tools behind tiered
permission levels.

Run 'memory-engine serve' to start the MCP server. The grant, vacation, and
tools subcommands administer permission levels directly.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (TOML)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load error: %v\n", err)
		cfg = config.Default()
	}
	log, err = logging.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the memory database from config.
func openStore() (*storage.Store, error) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Storage.Path, err)
	}
	return store, nil
}
