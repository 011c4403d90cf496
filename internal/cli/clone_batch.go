package cli

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"git-agentflow/internal/clone"
)

var cloneBatchBaseDir string

// cloneBatchCmd reads a YAML manifest of repositories:
//
//	- url: https://example.com/org/repo.git
//	  branch: main
//	  depth: 1
//	- url: https://example.com/org/other.git
var cloneBatchCmd = &cobra.Command{
	Use:          "clone-batch MANIFEST",
	Short:        "Clone every repository listed in a YAML manifest",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		var requests []clone.Request
		if err := yaml.Unmarshal(data, &requests); err != nil {
			return fmt.Errorf("parse manifest: %w", err)
		}
		if len(requests) == 0 {
			return fmt.Errorf("manifest lists no repositories")
		}

		results := newCloner(cloneBatchBaseDir).CloneMany(requests)

		failed := 0
		table := tablewriter.NewTable(cmd.OutOrStdout())
		table.Header([]string{"Repository", "Status", "Detail"})
		for _, r := range results {
			if r.Err != nil {
				failed++
				_ = table.Append([]string{r.URL, "failed", r.Err.Error()})
			} else {
				_ = table.Append([]string{r.URL, "success", r.Path})
			}
		}
		_ = table.Render()

		if failed > 0 {
			return fmt.Errorf("%d of %d clones failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	cloneBatchCmd.Flags().StringVar(&cloneBatchBaseDir, "base-dir", "", "Base directory for clones (defaults to config)")
	rootCmd.AddCommand(cloneBatchCmd)
}
