// Package clone fetches repositories into a base directory, one destination
// per repository, and records every attempt to the clone history store.
//
// Cloning into a destination that already exists deletes the old contents
// first. That destructive overwrite is deliberate: a pipeline re-running a
// clone wants a fresh copy, not a merge or update.
package clone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"git-agentflow/internal/history"
)

// Request describes one repository to clone. Branch and Depth are optional:
// an empty Branch clones the remote default, Depth > 0 makes the clone
// shallow.
type Request struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Depth  int    `yaml:"depth,omitempty"`
}

// BatchResult is the per-entry outcome of CloneMany.
type BatchResult struct {
	URL  string
	Path string
	Err  error
}

// CommitInfo describes the latest commit of a working copy.
type CommitInfo struct {
	Hash    string
	Message string
	Author  string
	Date    string
}

// RepoInfo describes an already-cloned working copy.
type RepoInfo struct {
	ActiveBranch string
	RemoteURL    string
	LastCommit   CommitInfo
}

// Cloner clones repositories under a base directory.
type Cloner struct {
	baseDir string
	store   *history.Store
	log     *zap.Logger
}

// NewCloner binds a cloner to a base directory and a history store.
func NewCloner(baseDir string, store *history.Store, log *zap.Logger) *Cloner {
	return &Cloner{baseDir: baseDir, store: store, log: log}
}

// DestinationFor returns the local directory a URL clones into: the URL's
// final path segment with any .git suffix stripped, under the base
// directory.
func (c *Cloner) DestinationFor(url string) string {
	return filepath.Join(c.baseDir, repoNameFromURL(url))
}

// Clone fetches the repository into its destination directory, removing any
// pre-existing directory of that name first. The outcome, success or
// failure, is recorded to history; on failure the error is also returned so
// the caller knows the repository is unavailable.
func (c *Cloner) Clone(url, branchName string, depth int) (string, error) {
	repoName := repoNameFromURL(url)
	dest := filepath.Join(c.baseDir, repoName)

	if _, err := os.Stat(dest); err == nil {
		c.log.Warn("destination already exists, removing",
			zap.String("repo", repoName), zap.String("path", dest))
		if err := os.RemoveAll(dest); err != nil {
			c.recordFailure(url, err)
			return "", fmt.Errorf("remove existing clone %s: %w", dest, err)
		}
	}
	if err := os.MkdirAll(c.baseDir, 0o755); err != nil {
		c.recordFailure(url, err)
		return "", fmt.Errorf("create base directory: %w", err)
	}

	c.log.Info("cloning repository", zap.String("url", url), zap.String("dest", dest))

	opts := &gogit.CloneOptions{URL: url}
	if branchName != "" {
		c.log.Info("cloning branch", zap.String("branch", branchName))
		opts.ReferenceName = plumbing.NewBranchReferenceName(branchName)
		opts.SingleBranch = true
	}
	if depth > 0 {
		c.log.Info("shallow clone", zap.Int("depth", depth))
		opts.Depth = depth
	}

	if _, err := gogit.PlainClone(dest, false, opts); err != nil {
		c.log.Error("clone failed", zap.String("url", url), zap.Error(err))
		c.recordFailure(url, err)
		return "", fmt.Errorf("clone %s: %w", url, err)
	}

	branchField := branchName
	if branchField == "" {
		branchField = "default"
	}
	c.store.Append(history.NewEntry("clone").
		With("repo_url", url).
		With("repo_name", repoName).
		With("branch", branchField).
		With("path", dest).
		With("status", "success"))

	c.log.Info("clone successful", zap.String("repo", repoName))
	return dest, nil
}

// CloneMany clones each request in order, collecting per-entry outcomes.
// One entry's failure does not abort the batch.
func (c *Cloner) CloneMany(requests []Request) []BatchResult {
	results := make([]BatchResult, 0, len(requests))
	for _, req := range requests {
		path, err := c.Clone(req.URL, req.Branch, req.Depth)
		results = append(results, BatchResult{URL: req.URL, Path: path, Err: err})
	}
	return results
}

// RepoInfo inspects an already-cloned working copy: active branch, origin
// URL, and the latest commit. Returns nil on any failure.
func (c *Cloner) RepoInfo(path string) *RepoInfo {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		c.log.Error("open repository failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		c.log.Error("resolve HEAD failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		c.log.Error("resolve HEAD commit failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	info := &RepoInfo{
		ActiveBranch: head.Name().Short(),
		LastCommit: CommitInfo{
			Hash:    commit.Hash.String()[:7],
			Message: strings.TrimSpace(commit.Message),
			Author:  fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email),
			Date:    commit.Author.When.Format(time.RFC3339),
		},
	}
	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = urls[0]
		}
	}
	return info
}

func (c *Cloner) recordFailure(url string, err error) {
	c.store.Append(history.NewEntry("clone").
		With("repo_url", url).
		With("status", "failed").
		With("error", err.Error()))
}

// repoNameFromURL derives the destination directory name from the URL's
// final path segment, stripping a trailing .git.
func repoNameFromURL(url string) string {
	name := url
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
