package commands

import (
	"github.com/spf13/cobra"

	"enrolinvitation/internal/repository/postgres"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			return postgres.RunMigrations(db, logger)
		},
	}
}
