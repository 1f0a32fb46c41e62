package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"enrolinvitation/internal/adapters/auth"
	"enrolinvitation/internal/repository/postgres"
	"enrolinvitation/internal/services"
)

func newTokenCommand() *cobra.Command {
	var userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for an existing user",
		Long:  "Signs a JWT for the given user with JWT_SECRET. Intended for operators and local testing.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, db, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewAccessTokenService(postgres.NewUserRepository(db), auth.NewJWTIssuer(cfg.JWTSecret), ttl)
			token, err := svc.IssueToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID to issue the token for")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
