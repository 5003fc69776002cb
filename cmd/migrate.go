package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Brightboard-Labs/brightboard/backend/config"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations",
	Long:  "Creates or updates the database schema from the model definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			fmt.Println(".env file not found, using environment variables")
		}

		c := config.New()
		db, err := openDatabase(c)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		fmt.Println("Migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
