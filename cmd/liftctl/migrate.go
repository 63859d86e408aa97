package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftbook/internal/db"
)

var migratePrintOnly bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded schema to the configured postgres database.

All statements are idempotent, running migrate twice is safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if migratePrintOnly {
			fmt.Fprintln(out, db.Schema())
			return nil
		}

		pool, err := db.NewDBPool(cmd.Context(), db.NewDBPoolParams{
			DatabaseURL: cfg.Secrets.DatabaseURL,
			DBHost:      cfg.PostgresHost,
			DBPort:      cfg.PostgresPort,
			DBName:      cfg.PostgresDBName,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			return err
		}

		fmt.Fprintln(out, color.GreenString("schema applied to [%s]", cfg.PostgresDBName))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migratePrintOnly, "print", false, "print the schema instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}
