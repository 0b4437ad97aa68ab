package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Configuration comes from the
// environment only.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bookreviews",
		Short:        "Book reviews HTTP service",
		Long:         `Serves signup, login, profile and book review endpoints over JSON/HTTP.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
