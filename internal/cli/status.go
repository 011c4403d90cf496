package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Show working copy status",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newAutomation().Status()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Branch: %s\n", st.Branch)
		if st.Clean {
			fmt.Fprintln(out, "Working copy is clean")
			return nil
		}

		table := tablewriter.NewTable(out)
		table.Header([]string{"State", "File"})
		for _, f := range st.Staged {
			_ = table.Append([]string{"staged", f})
		}
		for _, f := range st.Modified {
			_ = table.Append([]string{"modified", f})
		}
		for _, f := range st.Untracked {
			_ = table.Append([]string{"untracked", f})
		}
		_ = table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
