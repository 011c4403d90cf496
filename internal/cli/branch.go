package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	branchTeam       string
	branchLeader     string
	branchBase       string
	branchNoCheckout bool
	branchForce      bool
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage AI-fix branches",
}

var branchCreateCmd = &cobra.Command{
	Use:          "create [NAME]",
	Short:        "Create or check out a branch (canonical AI-fix name when NAME is omitted)",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newBranchManager()

		name := ""
		if len(args) == 1 {
			name = args[0]
		} else {
			name = mgr.GenerateName(branchTeam, branchLeader)
		}
		base := branchBase
		if base == "" {
			base = cfg.Git.BaseBranch
		}

		res := mgr.CreateOrCheckout(name, base, !branchNoCheckout)
		if !res.OK {
			return fmt.Errorf("branch create failed: %s", res.Detail)
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

var branchNameCmd = &cobra.Command{
	Use:   "name",
	Short: "Print the canonical AI-fix branch name without touching the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), newBranchManager().GenerateName(branchTeam, branchLeader))
		return nil
	},
}

var branchListCmd = &cobra.Command{
	Use:          "list [PATTERN]",
	Short:        "List local branches, optionally filtered by substring",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern := ""
		if len(args) == 1 {
			pattern = args[0]
		}
		branches := newBranchManager().List(pattern)

		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header([]string{"Branch"})
		for _, b := range branches {
			_ = table.Append([]string{b})
		}
		_ = table.Render()
		return nil
	},
}

var branchDeleteCmd = &cobra.Command{
	Use:          "delete NAME",
	Short:        "Delete a local branch",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := newBranchManager().Delete(args[0], branchForce)
		if !res.OK {
			return fmt.Errorf("branch delete failed: %s", res.Detail)
		}
		return nil
	},
}

var branchCurrentCmd = &cobra.Command{
	Use:          "current",
	Short:        "Print the active branch",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, ok := newBranchManager().Current()
		if !ok {
			return fmt.Errorf("no active branch")
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
		return nil
	},
}

func init() {
	branchCmd.PersistentFlags().StringVar(&branchTeam, "team", "", "Team name (defaults to config)")
	branchCmd.PersistentFlags().StringVar(&branchLeader, "leader", "", "Leader name (defaults to config)")
	branchCreateCmd.Flags().StringVar(&branchBase, "base", "", "Base branch to create from (defaults to config)")
	branchCreateCmd.Flags().BoolVar(&branchNoCheckout, "no-checkout", false, "Create without switching to the branch")
	branchDeleteCmd.Flags().BoolVar(&branchForce, "force", false, "Force deletion (-D)")

	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchNameCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchDeleteCmd)
	branchCmd.AddCommand(branchCurrentCmd)
	rootCmd.AddCommand(branchCmd)
}
