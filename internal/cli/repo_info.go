package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var repoInfoCmd = &cobra.Command{
	Use:          "repo-info PATH",
	Short:        "Show branch, remote, and latest commit of a cloned repository",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := newCloner("").RepoInfo(args[0])
		if info == nil {
			return fmt.Errorf("no repository information available for %s", args[0])
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Branch: %s\n", info.ActiveBranch)
		fmt.Fprintf(out, "Remote: %s\n", info.RemoteURL)
		fmt.Fprintf(out, "Commit: %s %s\n", info.LastCommit.Hash, info.LastCommit.Message)
		fmt.Fprintf(out, "Author: %s\n", info.LastCommit.Author)
		fmt.Fprintf(out, "Date:   %s\n", info.LastCommit.Date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repoInfoCmd)
}
