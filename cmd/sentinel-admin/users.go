// ABOUTME: User management subcommands: list, create, update, activate, delete
// ABOUTME: Deletion requires confirmation and refuses admin/self before any call

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/llm-se/sentinel-cli/internal/api"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.users.Refresh(cmd.Context()); err != nil {
			return err
		}
		printUsers(theApp.users.List())
		return nil
	},
}

var (
	createRole       int
	createClearance  int
	createDepartment string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user (starts active)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := theApp.users.Create(cmd.Context(), api.UserCreate{
			Username:       args[0],
			RoleLevel:      createRole,
			ClearanceLevel: createClearance,
			Department:     createDepartment,
		})
		if err != nil {
			return err
		}
		color.Green("Created %s", args[0])
		printUsers(theApp.users.List())
		return nil
	},
}

var (
	updateRole       int
	updateClearance  int
	updateDepartment string
)

var usersUpdateCmd = &cobra.Command{
	Use:   "update <username>",
	Short: "Update a user's role, clearance, or department",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only flags the caller actually set become part of the PATCH.
		var update api.UserUpdate
		if cmd.Flags().Changed("role") {
			update.RoleLevel = &updateRole
		}
		if cmd.Flags().Changed("clearance") {
			update.ClearanceLevel = &updateClearance
		}
		if cmd.Flags().Changed("department") {
			update.Department = &updateDepartment
		}
		if update == (api.UserUpdate{}) {
			return fmt.Errorf("nothing to update — set --role, --clearance, or --department")
		}

		if err := theApp.users.Update(cmd.Context(), args[0], update); err != nil {
			return err
		}
		color.Green("Updated %s", args[0])
		printUsers(theApp.users.List())
		return nil
	},
}

var usersActivateCmd = &cobra.Command{
	Use:   "activate <username>",
	Short: "Mark a user active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.users.SetActive(cmd.Context(), args[0], true); err != nil {
			return err
		}
		color.Green("Activated %s", args[0])
		return nil
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <username>",
	Short: "Mark a user inactive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.users.SetActive(cmd.Context(), args[0], false); err != nil {
			return err
		}
		color.Green("Deactivated %s", args[0])
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Permanently delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.users.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("Deleted %s", args[0])
		printUsers(theApp.users.List())
		return nil
	},
	// Guard first so a delete that can never run (built-in admin, yourself)
	// is refused without a confirmation prompt or a network call.
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.users.CanDelete(args[0]); err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Permanently delete user %q?", args[0])) {
			return fmt.Errorf("aborted")
		}
		return nil
	},
}

func printUsers(users []api.User) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tROLE\tCLEARANCE\tDEPARTMENT\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%v\n", u.Username, u.RoleLevel, u.ClearanceLevel, u.Department, u.IsActive)
	}
	w.Flush()
}

func init() {
	usersCreateCmd.Flags().IntVar(&createRole, "role", 1, "Role level")
	usersCreateCmd.Flags().IntVar(&createClearance, "clearance", 1, "Clearance level")
	usersCreateCmd.Flags().StringVar(&createDepartment, "department", "", "Department (required)")

	usersUpdateCmd.Flags().IntVar(&updateRole, "role", 0, "Role level")
	usersUpdateCmd.Flags().IntVar(&updateClearance, "clearance", 0, "Clearance level")
	usersUpdateCmd.Flags().StringVar(&updateDepartment, "department", "", "Department")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersActivateCmd)
	usersCmd.AddCommand(usersDeactivateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
