package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pushRemote string
	pushBranch string
	pushForce  bool
)

var pushCmd = &cobra.Command{
	Use:          "push",
	Short:        "Push the current branch (protected branches are refused)",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := pushRemote
		if remote == "" {
			remote = cfg.Git.Remote
		}
		res := newAutomation().Push(remote, pushBranch, pushForce)
		if !res.OK {
			return fmt.Errorf("push failed: %s", res.Detail)
		}
		return nil
	},
}

func init() {
	pushCmd.Flags().StringVar(&pushRemote, "remote", "", "Remote to push to (defaults to config)")
	pushCmd.Flags().StringVar(&pushBranch, "branch", "", "Branch to push (defaults to current)")
	pushCmd.Flags().BoolVar(&pushForce, "force", false, "Force push")
	rootCmd.AddCommand(pushCmd)
}
