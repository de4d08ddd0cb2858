package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/binfill/pkg/db"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the record tables of the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, ok := app.Source.(db.Migrator)
			if !ok {
				return fmt.Errorf("record source %q has no schema to migrate", app.Cfg.Source.Driver)
			}

			app.Logger.Info("Running migrations", zap.String("driver", app.Cfg.Source.Driver))
			if err := migrator.RunMigrations(app.Ctx); err != nil {
				return err
			}

			fmt.Printf("\n✓ Migrations applied to %s source\n\n", app.Cfg.Source.Driver)
			return nil
		},
	}
}
