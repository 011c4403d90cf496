// Package branch manages the working copy's branch lifecycle around the
// canonical <TEAM>_<LEADER>_AI_Fix naming convention, recording every
// mutating action to the branch history store.
package branch

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"git-agentflow/internal/config"
	"git-agentflow/internal/git"
	"git-agentflow/internal/history"
	"git-agentflow/internal/naming"
)

// Result is the outcome of a branch operation. Failures carry a
// human-readable detail instead of a raw error: this package never lets an
// underlying git error escape, callers check Result, not panics.
type Result struct {
	OK     bool
	Detail string
}

func failure(format string, args ...any) Result {
	return Result{Detail: fmt.Sprintf(format, args...)}
}

var success = Result{OK: true}

// Manager performs branch operations on one working copy.
type Manager struct {
	git   *git.Git
	cfg   config.Config
	store *history.Store
	log   *zap.Logger
}

// NewManager binds a manager to a working copy. store receives one entry per
// mutating action; queries (List, Current) do not record.
func NewManager(workDir string, cfg config.Config, store *history.Store, log *zap.Logger) *Manager {
	return &Manager{
		git:   git.NewWithWorkDir(workDir),
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

// GenerateName returns the canonical branch name for the given team and
// leader, falling back to the configured defaults when either is empty.
func (m *Manager) GenerateName(team, leader string) string {
	if team == "" {
		team = m.cfg.Team.Name
	}
	if leader == "" {
		leader = m.cfg.Team.Leader
	}
	name := naming.BranchName(team, leader)
	m.log.Debug("generated branch name", zap.String("branch", name))
	return name
}

// CreateOrCheckout switches to base, pulls the latest from the configured
// remote when one exists, then creates name if missing and checks it out
// when checkout is set. If name already exists it is reused (and checked out
// when requested). Any git failure is caught, logged, recorded, and
// reported through the Result.
func (m *Manager) CreateOrCheckout(name, base string, checkout bool) Result {
	res := m.createOrCheckout(name, base, checkout)

	entry := history.NewEntry("create_branch").
		With("branch_name", name).
		With("base_branch", base)
	if res.OK {
		entry.With("status", "created")
	} else {
		entry.With("status", "failed").With("error", res.Detail)
	}
	m.store.Append(entry)

	return res
}

func (m *Manager) createOrCheckout(name, base string, checkout bool) Result {
	if err := m.git.AssertRepo(); err != nil {
		m.log.Error("no repository", zap.Error(err))
		return failure("not a git repository: %v", err)
	}

	m.log.Info("switching to base branch", zap.String("base", base))
	if err := m.git.Checkout(base); err != nil {
		m.log.Error("base checkout failed", zap.Error(err))
		return failure("checkout %s: %v", base, err)
	}

	if m.git.HasRemote(m.cfg.Git.Remote) {
		m.log.Info("pulling latest changes", zap.String("remote", m.cfg.Git.Remote))
		if err := m.git.Pull(m.cfg.Git.Remote, base); err != nil {
			m.log.Error("pull failed", zap.Error(err))
			return failure("pull %s %s: %v", m.cfg.Git.Remote, base, err)
		}
	}

	if m.git.BranchExists(name) {
		m.log.Info("branch already exists", zap.String("branch", name))
	} else {
		m.log.Info("creating branch", zap.String("branch", name))
		if err := m.git.CreateBranch(name); err != nil {
			m.log.Error("branch creation failed", zap.Error(err))
			return failure("create %s: %v", name, err)
		}
	}
	if checkout {
		if err := m.git.Checkout(name); err != nil {
			m.log.Error("checkout failed", zap.Error(err))
			return failure("checkout %s: %v", name, err)
		}
	}

	m.log.Info("branch ready", zap.String("branch", name))
	return success
}

// EnsureAIFixBranch makes sure the working copy is on the canonical branch
// for team/leader, creating it from base if needed. It returns the branch
// name, and an error only when creation or checkout itself failed; being
// already on the branch is not an error.
func (m *Manager) EnsureAIFixBranch(team, leader, base string) (string, error) {
	if base == "" {
		base = m.cfg.Git.BaseBranch
	}
	target := m.GenerateName(team, leader)

	if current, ok := m.Current(); ok && current == target {
		return target, nil
	}

	if res := m.CreateOrCheckout(target, base, true); !res.OK {
		return "", fmt.Errorf("ensure branch %s: %s", target, res.Detail)
	}
	return target, nil
}

// List returns all local branch names, filtered by substring when pattern is
// non-empty. Failures yield an empty list.
func (m *Manager) List(pattern string) []string {
	branches, err := m.git.LocalBranches()
	if err != nil {
		m.log.Error("listing branches failed", zap.Error(err))
		return []string{}
	}
	if pattern != "" {
		filtered := branches[:0]
		for _, b := range branches {
			if strings.Contains(b, pattern) {
				filtered = append(filtered, b)
			}
		}
		branches = filtered
	}
	m.log.Info("listed branches", zap.Int("count", len(branches)))
	return branches
}

// Delete removes a local branch.
func (m *Manager) Delete(name string, force bool) Result {
	res := success
	if err := m.git.DeleteBranch(name, force); err != nil {
		m.log.Error("branch deletion failed", zap.String("branch", name), zap.Error(err))
		res = failure("delete %s: %v", name, err)
	} else {
		m.log.Info("deleted branch", zap.String("branch", name))
	}

	entry := history.NewEntry("delete_branch").
		With("branch_name", name).
		With("force", force)
	if res.OK {
		entry.With("status", "deleted")
	} else {
		entry.With("status", "failed").With("error", res.Detail)
	}
	m.store.Append(entry)

	return res
}

// Current returns the active branch name, or false when it cannot be
// determined (detached HEAD, uninitialized working copy).
func (m *Manager) Current() (string, bool) {
	name, err := m.git.CurrentBranch()
	if err != nil {
		m.log.Debug("no active branch", zap.Error(err))
		return "", false
	}
	return name, true
}

// RecordEntry writes a descriptive branch record with a run identifier,
// independent of any git action. Used by pipelines that annotate the run
// with issue metadata.
func (m *Manager) RecordEntry(issueType, issueID, description string) history.Entry {
	entry := history.NewEntry("branch_entry").
		With("branch_name", m.GenerateName("", "")).
		With("type", orNA(issueType)).
		With("issue_id", orNA(issueID)).
		With("description", orNA(description)).
		With("run_id", time.Now().Format("20060102_150405")).
		With("created_by", "DevOps_Lead").
		With("status", "created")
	m.store.Append(entry)
	return entry
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
