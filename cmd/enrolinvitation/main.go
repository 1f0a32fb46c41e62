// @title Course Invitations API
// @version 1.0
// @description Email invitations to join a course with a role: send, resend, revoke, view, accept and decline.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"log/slog"
	"os"

	"enrolinvitation/cmd/enrolinvitation/commands"
)

func main() {
	if err := commands.GetRootCmd().Execute(); err != nil {
		slog.Error("Error executing command", "err", err)
		os.Exit(1)
	}
}
