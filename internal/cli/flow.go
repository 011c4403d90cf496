package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"git-agentflow/internal/automation"
)

var (
	flowMessage string
	flowAll     bool
	flowRemote  string
)

var flowCmd = &cobra.Command{
	Use:          "flow",
	Short:        "Run the full flow: ensure AI-fix branch, stage, commit, push",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote := flowRemote
		if remote == "" {
			remote = cfg.Git.Remote
		}
		return runFlowWithDeps(newAutomation(), cmd.OutOrStdout(), flowMessage, flowAll, remote)
	},
}

func init() {
	flowCmd.Flags().StringVarP(&flowMessage, "message", "m", "", "Commit message")
	flowCmd.Flags().BoolVarP(&flowAll, "all", "a", true, "Stage all changes before committing")
	flowCmd.Flags().StringVar(&flowRemote, "remote", "", "Remote to push to (defaults to config)")
	_ = flowCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(flowCmd)
}

// --- dependency injected core for testing ---

type flowRunner interface {
	RunFlow(message string, all bool, remote string) automation.FlowResult
}

func runFlowWithDeps(runner flowRunner, out io.Writer, message string, all bool, remote string) error {
	res := runner.RunFlow(message, all, remote)

	okMark := func(ok bool) string {
		if ok {
			return "[OK]"
		}
		return "[FAIL]"
	}
	fmt.Fprintf(out, "Branch: %s\n", res.Branch)
	fmt.Fprintf(out, "Stage:  %s\n", okMark(res.Staged))
	if res.Commit != "" {
		fmt.Fprintf(out, "Commit: %s\n", res.Commit)
	} else {
		fmt.Fprintln(out, "Commit: [FAIL]")
	}
	fmt.Fprintf(out, "Push:   %s\n", okMark(res.Pushed))

	if res.FailedStep != "" {
		return fmt.Errorf("flow stopped at step %q", res.FailedStep)
	}
	return nil
}
