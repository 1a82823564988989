package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solarstock/internal/database/migration"
	"solarstock/internal/logger"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			logger.NewLogger(),
		)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "solarstock",
		Short: "Solar material inventory service",
	}
	MigrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	rootCmd.AddCommand(MigrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
