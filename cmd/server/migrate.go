package main

import (
	"github.com/spf13/cobra"
	"github.com/tactache/tactache-api/internal/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close()

			return database.Migrate(a.db, a.log)
		},
	}
}
