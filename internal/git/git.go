// Package git wraps the git command line for a single working copy. Every
// call shells out, blocks until git returns, and folds stderr into the
// returned error so callers can log something useful.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Git executes git commands in a working copy.
type Git struct {
	// WorkDir is the filesystem path where git commands run.
	// If empty, commands run in the current process working directory.
	WorkDir string
}

func New() *Git { return &Git{} }

// NewWithWorkDir creates a Git bound to the provided working directory.
func NewWithWorkDir(dir string) *Git { return &Git{WorkDir: dir} }

// AssertRepo fails when WorkDir is not inside a git repository.
func (g *Git) AssertRepo() error {
	_, err := run(g.WorkDir, "rev-parse", "--git-dir")
	return err
}

// CurrentBranch returns the checked-out branch name. A detached HEAD is
// reported as an error since there is no branch to name.
func (g *Git) CurrentBranch() (string, error) {
	out, err := run(g.WorkDir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", fmt.Errorf("detached HEAD, no active branch")
	}
	return out, nil
}

// Checkout switches the working copy to the named branch.
func (g *Git) Checkout(branch string) error {
	_, err := run(g.WorkDir, "checkout", branch)
	return err
}

// CreateBranch creates a branch at the current HEAD without switching to it.
func (g *Git) CreateBranch(name string) error {
	_, err := run(g.WorkDir, "branch", name)
	return err
}

// DeleteBranch removes a local branch. force uses -D.
func (g *Git) DeleteBranch(name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := run(g.WorkDir, "branch", flag, name)
	return err
}

// BranchExists reports whether a local branch of that name exists.
func (g *Git) BranchExists(name string) bool {
	_, err := run(g.WorkDir, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// LocalBranches lists all local branch names.
func (g *Git) LocalBranches() ([]string, error) {
	out, err := run(g.WorkDir, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\n"), nil
}

// HasRemote reports whether the named remote is configured.
func (g *Git) HasRemote(name string) bool {
	out, err := run(g.WorkDir, "remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if line == name {
			return true
		}
	}
	return false
}

// RemoteURL returns the URL for the given remote.
func (g *Git) RemoteURL(remote string) (string, error) {
	return run(g.WorkDir, "remote", "get-url", remote)
}

// Pull fetches and merges from remote. branch may be empty to pull the
// current branch's upstream.
func (g *Git) Pull(remote, branch string) error {
	args := []string{"pull", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := run(g.WorkDir, args...)
	return err
}

// Push sends the branch to the remote, setting upstream on first push.
func (g *Git) Push(remote, branch string, force bool) error {
	args := []string{"push", "-u"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remote, branch)
	_, err := run(g.WorkDir, args...)
	return err
}

// StageAll stages every tracked and untracked change.
func (g *Git) StageAll() error {
	_, err := run(g.WorkDir, "add", "-A")
	return err
}

// StageFiles stages the given paths.
func (g *Git) StageFiles(files []string) error {
	args := append([]string{"add", "--"}, files...)
	_, err := run(g.WorkDir, args...)
	return err
}

// Commit records the staged changes. author, when non-empty, must be in
// "Name <email>" form. Returns the short hash of the new commit.
func (g *Git) Commit(message, author string) (string, error) {
	args := []string{"commit", "-m", message}
	if author != "" {
		args = append(args, "--author", author)
	}
	if _, err := run(g.WorkDir, args...); err != nil {
		return "", err
	}
	return run(g.WorkDir, "rev-parse", "--short", "HEAD")
}

// StatusInfo is the parsed output of git status --porcelain.
type StatusInfo struct {
	Staged    []string
	Modified  []string
	Untracked []string
}

// Clean reports whether the working copy has no changes at all,
// untracked files included.
func (s *StatusInfo) Clean() bool {
	return len(s.Staged) == 0 && len(s.Modified) == 0 && len(s.Untracked) == 0
}

// HasCommittable reports whether a commit would have content: anything
// staged or any tracked file modified. Untracked-only changes do not count
// until they are staged.
func (s *StatusInfo) HasCommittable() bool {
	return len(s.Staged) > 0 || len(s.Modified) > 0
}

// Status parses git status --porcelain into staged, modified, and
// untracked path lists.
func (g *Git) Status() (*StatusInfo, error) {
	out, err := run(g.WorkDir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	info := &StatusInfo{}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		x, y, path := line[0], line[1], line[3:]
		if x == '?' && y == '?' {
			info.Untracked = append(info.Untracked, path)
			continue
		}
		if x != ' ' {
			info.Staged = append(info.Staged, path)
		}
		if y != ' ' {
			info.Modified = append(info.Modified, path)
		}
	}
	return info, nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// Include stderr to help callers
		if stderr.Len() > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
