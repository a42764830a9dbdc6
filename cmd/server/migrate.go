package main

import (
	"fmt"

	"github.com/anonto42/story-creator/backend/migrations"
	"github.com/anonto42/story-creator/backend/pkg/migration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate [up|down|version]",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(*cobra.Command, []string) error {
				return withMigrator(func(m *migration.Migrator, _ *zap.Logger) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(*cobra.Command, []string) error {
				return withMigrator(func(m *migration.Migrator, _ *zap.Logger) error { return m.Down() })
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m *migration.Migrator, _ *zap.Logger) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
	)
	return migrateCmd
}

// withMigrator opens PostgreSQL only; the schema commands never touch MongoDB.
func withMigrator(fn func(*migration.Migrator, *zap.Logger) error) error {
	return withPostgres(func(db *gorm.DB, log *zap.Logger) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return fn(migration.NewMigrator(sqlDB, migrations.FS, ".", log), log)
	})
}
