// Package cmd implements the usermgmt command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running it without a subcommand serves
// the web application.
func NewRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "usermgmt",
		Short:         "User management web application",
		Long:          "Manage user records through a web UI with an audit log of every view and change.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file with environment variables")

	rootCmd.AddCommand(
		newServeCmd(&envFile),
		newUsersCmd(&envFile),
		newLogsCmd(&envFile),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
