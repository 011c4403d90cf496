package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"git-agentflow/internal/automation"
)

var (
	commitMessage     string
	commitAuthorName  string
	commitAuthorEmail string
	stageAll          bool
)

var stageCmd = &cobra.Command{
	Use:          "stage [FILE...]",
	Short:        "Stage files for commit",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		res := newAutomation().Stage(args, stageAll)
		if !res.OK {
			return fmt.Errorf("stage failed: %s", res.Detail)
		}
		return nil
	},
}

var commitCmd = &cobra.Command{
	Use:          "commit",
	Short:        "Commit staged changes with the [AI-AGENT] message tag",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var author *automation.Author
		if commitAuthorName != "" && commitAuthorEmail != "" {
			author = &automation.Author{Name: commitAuthorName, Email: commitAuthorEmail}
		}

		res := newAutomation().Commit(commitMessage, author)
		if !res.OK {
			return fmt.Errorf("commit failed: %s", res.Detail)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Hash)
		return nil
	},
}

func init() {
	stageCmd.Flags().BoolVarP(&stageAll, "all", "a", false, "Stage all tracked and untracked changes")

	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.Flags().StringVar(&commitAuthorName, "author-name", "", "Explicit author name")
	commitCmd.Flags().StringVar(&commitAuthorEmail, "author-email", "", "Explicit author email")
	_ = commitCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(commitCmd)
}
