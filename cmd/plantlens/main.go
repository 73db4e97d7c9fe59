package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantlens/internal/config"
	"plantlens/internal/database"
	"plantlens/internal/logger"
	"plantlens/internal/repositories"
)

// app holds what subcommands share once the root command has loaded configuration.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

// openCatalog connects to the configured database and returns the catalog and
// the schema name to read.
func (a *app) openCatalog(ctx context.Context) (repositories.Catalog, string, func(), error) {
	catalog, closeFn, err := database.OpenCatalog(ctx, a.cfg.Database, a.log)
	if err != nil {
		return nil, "", nil, err
	}
	return catalog, a.cfg.Database.Schema, closeFn, nil
}

// newRootCmd builds the command tree. A nil open uses the configured database.
func newRootCmd(a *app, open catalogOpener) *cobra.Command {
	if open == nil {
		open = a.openCatalog
	}

	rootCmd := &cobra.Command{
		Use:          "plantlens",
		Short:        "Plant identification and database schema tools",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg != nil {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Log)
			return nil
		},
	}

	rootCmd.AddCommand(newSchemaVisualizeCmd(open))
	rootCmd.AddCommand(newIdentifyCmd(a))
	return rootCmd
}

func main() {
	a := &app{}
	if err := newRootCmd(a, nil).Execute(); err != nil {
		os.Exit(1)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
