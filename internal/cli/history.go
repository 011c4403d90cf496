package cli

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"git-agentflow/internal/history"
)

var historyCmd = &cobra.Command{
	Use:          "history CATEGORY",
	Short:        "Show recorded history (branches, commits, clones)",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		switch args[0] {
		case "branches":
			path = cfg.BranchHistoryPath()
		case "commits":
			path = cfg.AutomationHistoryPath()
		case "clones":
			path = cfg.CloneHistoryPath()
		default:
			return fmt.Errorf("unknown history category %q (want branches, commits, or clones)", args[0])
		}

		entries, err := history.NewStore(path, logger).Entries()
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header([]string{"Timestamp", "Action", "Status", "Detail"})
		for _, e := range entries {
			_ = table.Append([]string{
				stringField(e, "timestamp"),
				stringField(e, "action"),
				stringField(e, "status"),
				entryDetail(e),
			})
		}
		_ = table.Render()
		return nil
	},
}

// entryDetail picks the most descriptive action-specific field available.
func entryDetail(e history.Entry) string {
	for _, key := range []string{"branch_name", "branch", "repo_url", "commit_hash", "error"} {
		if v := stringField(e, key); v != "" {
			return v
		}
	}
	return ""
}

func stringField(e history.Entry, key string) string {
	if v, ok := e[key].(string); ok {
		return v
	}
	return ""
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
