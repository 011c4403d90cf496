// Package automation drives the stage → commit → push workflow for one
// working copy: repository status, staging, tagged commits, a
// protected-branch push policy, and the composite commit-push flow. Commit
// and push events are recorded to the automation history store.
package automation

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"git-agentflow/internal/branch"
	"git-agentflow/internal/config"
	"git-agentflow/internal/git"
	"git-agentflow/internal/history"
)

// MessageTag is prepended to every commit message that does not already
// carry it.
const MessageTag = "[AI-AGENT]"

// Result is the outcome of a stage/push/pull operation. As with branch
// operations, underlying git errors are caught and surfaced here rather
// than returned raw.
type Result struct {
	OK     bool
	Detail string
}

func failure(format string, args ...any) Result {
	return Result{Detail: fmt.Sprintf(format, args...)}
}

var success = Result{OK: true}

// CommitResult is the outcome of a commit attempt. A refused commit
// (nothing to commit) has OK=false and an empty Hash without being an
// operational error.
type CommitResult struct {
	OK     bool
	Hash   string
	Detail string
}

// Author is an explicit commit identity.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// RepoStatus reports the working copy state.
type RepoStatus struct {
	Branch    string
	Staged    []string
	Modified  []string
	Untracked []string
	Clean     bool
}

// FlowResult records how far the composite commit-push flow got. FailedStep
// is empty when every step completed, otherwise it names the first step that
// failed ("branch", "stage", "commit", "push").
type FlowResult struct {
	Branch     string
	Staged     bool
	Commit     string
	Pushed     bool
	FailedStep string
	Timestamp  time.Time
}

// Automation performs commit/push operations on one working copy.
type Automation struct {
	git      *git.Git
	branches *branch.Manager
	cfg      config.Config
	store    *history.Store
	log      *zap.Logger
}

// New binds an automation to a working copy. branches is used by RunFlow to
// ensure the canonical feature branch before committing.
func New(workDir string, cfg config.Config, branches *branch.Manager, store *history.Store, log *zap.Logger) *Automation {
	return &Automation{
		git:      git.NewWithWorkDir(workDir),
		branches: branches,
		cfg:      cfg,
		store:    store,
		log:      log,
	}
}

// Status reports the active branch and the staged/modified/untracked file
// lists.
func (a *Automation) Status() (*RepoStatus, error) {
	branchName, err := a.git.CurrentBranch()
	if err != nil {
		a.log.Error("status failed", zap.Error(err))
		return nil, err
	}
	info, err := a.git.Status()
	if err != nil {
		a.log.Error("status failed", zap.Error(err))
		return nil, err
	}
	st := &RepoStatus{
		Branch:    branchName,
		Staged:    info.Staged,
		Modified:  info.Modified,
		Untracked: info.Untracked,
		Clean:     info.Clean(),
	}
	a.log.Info("repository status",
		zap.String("branch", st.Branch),
		zap.Int("staged", len(st.Staged)),
		zap.Int("modified", len(st.Modified)),
		zap.Int("untracked", len(st.Untracked)),
		zap.Bool("clean", st.Clean))
	return st, nil
}

// Stage stages either the explicit file list or, with all set, every
// tracked and untracked change. Fails when neither is given.
func (a *Automation) Stage(files []string, all bool) Result {
	switch {
	case all:
		a.log.Info("staging all changes")
		if err := a.git.StageAll(); err != nil {
			a.log.Error("staging failed", zap.Error(err))
			return failure("stage all: %v", err)
		}
	case len(files) > 0:
		a.log.Info("staging files", zap.Int("count", len(files)))
		if err := a.git.StageFiles(files); err != nil {
			a.log.Error("staging failed", zap.Error(err))
			return failure("stage files: %v", err)
		}
	default:
		a.log.Warn("no files specified to stage")
		return failure("no files specified to stage")
	}
	return success
}

// Commit records the staged changes with the tagged message. When there is
// nothing staged or modified it refuses without creating a commit. The
// message gets the MessageTag prefix exactly once.
func (a *Automation) Commit(message string, author *Author) CommitResult {
	info, err := a.git.Status()
	if err != nil {
		a.log.Error("commit failed", zap.Error(err))
		return CommitResult{Detail: fmt.Sprintf("status: %v", err)}
	}
	if !info.HasCommittable() {
		a.log.Warn("no changes to commit")
		return CommitResult{Detail: "nothing to commit"}
	}

	message = TagMessage(message)
	a.log.Info("committing changes", zap.String("message", message))

	identity := ""
	if author != nil {
		identity = author.String()
	}
	hash, err := a.git.Commit(message, identity)
	if err != nil {
		a.log.Error("commit failed", zap.Error(err))
		a.store.Append(history.NewEntry("commit").
			With("message", message).
			With("status", "failed").
			With("error", err.Error()))
		return CommitResult{Detail: err.Error()}
	}

	branchName, _ := a.git.CurrentBranch()
	a.store.Append(history.NewEntry("commit").
		With("commit_hash", hash).
		With("message", message).
		With("branch", branchName).
		With("status", "success"))

	a.log.Info("commit successful", zap.String("hash", hash))
	return CommitResult{OK: true, Hash: hash}
}

// Push sends branchName (the current branch when empty) to the remote.
// Pushes to a protected branch are always refused before any network I/O;
// that guard fails closed regardless of force.
func (a *Automation) Push(remote, branchName string, force bool) Result {
	if branchName == "" {
		current, err := a.git.CurrentBranch()
		if err != nil {
			a.log.Error("push failed", zap.Error(err))
			return failure("resolve current branch: %v", err)
		}
		branchName = current
	}

	if a.cfg.IsProtected(branchName) {
		a.log.Error("push blocked: refusing to push directly to protected branch",
			zap.String("branch", branchName))
		a.store.Append(history.NewEntry("push").
			With("remote", remote).
			With("branch", branchName).
			With("force", force).
			With("status", "blocked").
			With("error", "protected branch"))
		return failure("refusing to push directly to protected branch %q", branchName)
	}

	a.log.Info("pushing", zap.String("remote", remote), zap.String("branch", branchName))
	if force {
		a.log.Warn("force push enabled")
	}

	entry := history.NewEntry("push").
		With("remote", remote).
		With("branch", branchName).
		With("force", force)
	if err := a.git.Push(remote, branchName, force); err != nil {
		a.log.Error("push failed", zap.Error(err))
		a.store.Append(entry.With("status", "failed").With("error", err.Error()))
		return failure("push %s/%s: %v", remote, branchName, err)
	}
	a.store.Append(entry.With("status", "success"))

	a.log.Info("push successful", zap.String("remote", remote), zap.String("branch", branchName))
	return success
}

// Pull fetches and merges from the named branch, defaulting to the current
// branch.
func (a *Automation) Pull(remote, branchName string) Result {
	if branchName == "" {
		current, err := a.git.CurrentBranch()
		if err != nil {
			a.log.Error("pull failed", zap.Error(err))
			return failure("resolve current branch: %v", err)
		}
		branchName = current
	}
	a.log.Info("pulling", zap.String("remote", remote), zap.String("branch", branchName))
	if err := a.git.Pull(remote, branchName); err != nil {
		a.log.Error("pull failed", zap.Error(err))
		return failure("pull %s/%s: %v", remote, branchName, err)
	}
	a.log.Info("pull successful")
	return success
}

// RunFlow executes the composite workflow: ensure the canonical feature
// branch, stage, commit, push. Each step gates the next; the result records
// which steps completed and which one stopped the flow.
func (a *Automation) RunFlow(message string, all bool, remote string) FlowResult {
	a.log.Info("starting automated commit and push flow")
	res := FlowResult{Timestamp: time.Now()}

	branchName, err := a.branches.EnsureAIFixBranch("", "", "")
	if err != nil {
		a.log.Error("flow aborted", zap.Error(err))
		res.FailedStep = "branch"
		return res
	}
	res.Branch = branchName

	if st := a.Stage(nil, all); !st.OK {
		a.log.Error("flow aborted at staging", zap.String("detail", st.Detail))
		res.FailedStep = "stage"
		return res
	}
	res.Staged = true

	commit := a.Commit(message, nil)
	if !commit.OK {
		a.log.Error("flow aborted at commit", zap.String("detail", commit.Detail))
		res.FailedStep = "commit"
		return res
	}
	res.Commit = commit.Hash

	if push := a.Push(remote, "", false); !push.OK {
		a.log.Error("flow failed at push", zap.String("detail", push.Detail))
		res.FailedStep = "push"
		return res
	}
	res.Pushed = true

	a.log.Info("automation complete", zap.String("branch", branchName), zap.String("commit", res.Commit))
	return res
}

// TagMessage prefixes message with MessageTag unless it is already present.
func TagMessage(message string) string {
	if strings.HasPrefix(message, MessageTag) {
		return message
	}
	return MessageTag + " " + message
}
