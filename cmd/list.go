package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/blogem/usermgmt/models"
	"github.com/blogem/usermgmt/services"
)

func newUsersCmd(envFile *string) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect user records",
	}

	var active, inactive bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users in store order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if active && inactive {
				return fmt.Errorf("--active and --inactive are mutually exclusive")
			}

			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			var users []models.User
			switch {
			case active:
				users, err = a.services.Users.FilterByActive(cmd.Context(), true)
			case inactive:
				users, err = a.services.Users.FilterByActive(cmd.Context(), false)
			default:
				users, err = a.services.Users.GetAll(cmd.Context())
			}
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range models.NewUserListItems(users) {
				rows = append(rows, []interface{}{u.ID, u.Forename, u.Surname, u.Email, u.DateOfBirth, u.IsActive})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Forename", "Surname", "Email", "Date of birth", "Active"}, rows)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&active, "active", false, "only active users")
	listCmd.Flags().BoolVar(&inactive, "inactive", false, "only inactive users")

	usersCmd.AddCommand(listCmd)
	return usersCmd
}

func newLogsCmd(envFile *string) *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the audit log",
	}

	var userID int64
	var skip, take int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List log entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			var entries []models.LogEntry
			if userID > 0 {
				entries, err = a.services.Logs.GetByUser(cmd.Context(), userID, skip, take)
			} else {
				entries, err = a.services.Logs.GetAll(cmd.Context(), skip, take)
			}
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range models.NewLogListItems(entries) {
				user := "-"
				if e.UserID != nil {
					user = fmt.Sprint(*e.UserID)
				}
				rows = append(rows, []interface{}{e.ID, e.CreatedAt, user, e.Action, e.Description})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "When", "User", "Action", "Description"}, rows)
			return nil
		},
	}
	listCmd.Flags().Int64Var(&userID, "user", 0, "only entries for this user id")
	listCmd.Flags().IntVar(&skip, "skip", 0, "entries to skip")
	listCmd.Flags().IntVar(&take, "take", services.DefaultLogTake, "entries to show")

	logsCmd.AddCommand(listCmd)
	return logsCmd
}

// renderTable prints a pretty table to w
func renderTable(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}
