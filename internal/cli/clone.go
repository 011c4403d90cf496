package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cloneBranch  string
	cloneDepth   int
	cloneBaseDir string
)

var cloneCmd = &cobra.Command{
	Use:          "clone URL",
	Short:        "Clone a repository, replacing any existing local copy",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := newCloner(cloneBaseDir).Clone(args[0], cloneBranch, cloneDepth)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneBranch, "branch", "", "Branch to clone")
	cloneCmd.Flags().IntVar(&cloneDepth, "depth", 0, "Shallow clone depth")
	cloneCmd.Flags().StringVar(&cloneBaseDir, "base-dir", "", "Base directory for clones (defaults to config)")
	rootCmd.AddCommand(cloneCmd)
}
