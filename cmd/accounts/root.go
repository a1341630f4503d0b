package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the accounts CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "accounts - credential service for the mobile client",
		Long: `accounts serves account registration, login, email lookup and
password reset over HTTP, backed by PostgreSQL or MongoDB.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
