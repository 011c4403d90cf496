package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git-agentflow/internal/automation"
	"git-agentflow/internal/branch"
	"git-agentflow/internal/clone"
	appconfig "git-agentflow/internal/config"
	"git-agentflow/internal/history"
	"git-agentflow/internal/logging"
)

var (
	cfgPath  string
	repoPath string
	verbose  bool

	cfg    appconfig.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "git-agentflow",
	Short: "Automate AI-agent git branch, commit, and clone workflows",
	Long: "git-agentflow standardizes hackathon DevOps automation: canonical\n" +
		"TEAM_LEADER_AI_Fix branches, tagged commits, protected-branch push\n" +
		"policy, repository cloning, and append-only JSON history files.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = appconfig.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logger, err = logging.New(cfg.Logging.Dir, "git_agentflow", verbose, cfg.Logging.ToFile)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (defaults to the global XDG path)")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "Path to the working copy")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// --- shared constructors ---

func newBranchManager() *branch.Manager {
	store := history.NewStore(cfg.BranchHistoryPath(), logger)
	if err := store.Ensure(); err != nil {
		logger.Warn("branch history store unavailable", zap.Error(err))
	}
	return branch.NewManager(repoPath, cfg, store, logger)
}

func newAutomation() *automation.Automation {
	store := history.NewStore(cfg.AutomationHistoryPath(), logger)
	if err := store.Ensure(); err != nil {
		logger.Warn("automation history store unavailable", zap.Error(err))
	}
	return automation.New(repoPath, cfg, newBranchManager(), store, logger)
}

func newCloner(baseDir string) *clone.Cloner {
	if baseDir == "" {
		baseDir = cfg.Storage.CloneBaseDir
	}
	store := history.NewStore(cfg.CloneHistoryPath(), logger)
	if err := store.Ensure(); err != nil {
		logger.Warn("clone history store unavailable", zap.Error(err))
	}
	return clone.NewCloner(baseDir, store, logger)
}
