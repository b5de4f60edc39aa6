// Package main provides the shelf CLI, a command-line front end for the
// datashelf mapping engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/datashelf/internal/engine"
	"github.com/mesh-intelligence/datashelf/internal/loader"
	"github.com/mesh-intelligence/datashelf/internal/registry"
	"github.com/mesh-intelligence/datashelf/internal/sqlite"
	"github.com/mesh-intelligence/datashelf/pkg/memory"
	"github.com/mesh-intelligence/datashelf/pkg/types"
)

var (
	// configDir is set by the --config-dir flag.
	configDir string

	// namespaceFlag overrides the configured namespace.
	namespaceFlag string

	// verbose enables debug logging.
	verbose bool

	// eng is the global engine instance, initialized on startup.
	eng *engine.Engine

	// backend is closed on shutdown.
	backend types.Backend
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Shelf is a schema-driven data mapping engine",
	Long: `Shelf manages dynamically discovered data models and provides uniform
create/read/update/delete operations over interchangeable storage
backends. Model definitions are YAML files in the configured models
directory; records live in the configured backend.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initEngine,
	PersistentPostRunE: closeEngine,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default: .datashelf)")
	rootCmd.PersistentFlags().StringVar(&namespaceFlag, "namespace", "", "logical database to operate in")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shelf v0.1.0")
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and storage",
	Long:  `Initialize writes a default config.yaml and opens the configured backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Engine is already initialized by PersistentPreRunE.
		fmt.Printf("datashelf initialized (%d models registered)\n", len(eng.Models()))
		return nil
	},
}

// initEngine loads config, opens the backend, discovers models, and
// constructs the engine.
func initEngine(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := loadConfig(resolveConfigDir())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if namespaceFlag != "" {
		cfg.Namespace = namespaceFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := zap.NewNop().Sugar()
	if verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = zl.Sugar()
	}

	switch cfg.Backend {
	case types.BackendMemory:
		backend = memory.NewBackend()
	case types.BackendSQLite:
		b, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open sqlite backend: %w", err)
		}
		log.Debugw("opened sqlite store", "store_id", b.StoreID(), "data_dir", cfg.DataDir)
		backend = b
	}

	reg := registry.New()
	defs, err := discoverModels(cfg.ModelsDir)
	if err != nil {
		return err
	}
	if err := reg.Load(defs); err != nil {
		return fmt.Errorf("load models: %w", err)
	}

	eng = engine.New(reg, backend,
		engine.WithNamespace(cfg.EffectiveNamespace()),
		engine.WithLogger(log))
	return nil
}

// discoverModels loads definitions from the models directory. A missing
// directory yields an empty registry, not an error.
func discoverModels(dir string) ([]types.Definition, error) {
	if dir == "" {
		dir = "models"
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	defs, err := loader.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("discover models: %w", err)
	}
	return defs, nil
}

// closeEngine releases backend resources.
func closeEngine(cmd *cobra.Command, args []string) error {
	if backend != nil {
		return backend.Close()
	}
	return nil
}
