package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pullRemote string
	pullBranch string
)

var pullCmd = &cobra.Command{
	Use:          "pull",
	Short:        "Pull the latest changes from the remote",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := pullRemote
		if remote == "" {
			remote = cfg.Git.Remote
		}
		res := newAutomation().Pull(remote, pullBranch)
		if !res.OK {
			return fmt.Errorf("pull failed: %s", res.Detail)
		}
		return nil
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullRemote, "remote", "", "Remote to pull from (defaults to config)")
	pullCmd.Flags().StringVar(&pullBranch, "branch", "", "Branch to pull (defaults to current)")
	rootCmd.AddCommand(pullCmd)
}
