package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply every module's pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, pool, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return app.Migrations().Apply(cmd.Context())
		},
	}
}
