package automation

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"git-agentflow/internal/branch"
	"git-agentflow/internal/config"
	"git-agentflow/internal/history"
)

func runCmd(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "command failed: %s %s\n%s", name, strings.Join(args, " "), string(out))
	return string(out)
}

func initTempRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runCmd(t, dir, "git", "init", "-b", "main")
	runCmd(t, dir, "git", "config", "user.name", "Test User")
	runCmd(t, dir, "git", "config", "user.email", "test@example.com")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	runCmd(t, dir, "git", "add", "README.md")
	runCmd(t, dir, "git", "commit", "-m", "initial commit")
	return dir
}

// addBareRemote wires a local bare repository as origin and seeds it with
// main so pulls against the base branch succeed.
func addBareRemote(t *testing.T, repoDir string) string {
	t.Helper()
	remoteDir := t.TempDir()
	runCmd(t, remoteDir, "git", "init", "--bare")
	runCmd(t, repoDir, "git", "remote", "add", "origin", remoteDir)
	runCmd(t, repoDir, "git", "push", "-u", "origin", "main")
	return remoteDir
}

func newTestAutomation(t *testing.T, repoDir string) (*Automation, *history.Store) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Team.Name = "Code Warriors"
	cfg.Team.Leader = "Jane Doe"

	dataDir := t.TempDir()
	branchStore := history.NewStore(filepath.Join(dataDir, "branch_history.json"), zap.NewNop())
	autoStore := history.NewStore(filepath.Join(dataDir, "git_automation_history.json"), zap.NewNop())
	require.NoError(t, branchStore.Ensure())
	require.NoError(t, autoStore.Ensure())

	branches := branch.NewManager(repoDir, cfg, branchStore, zap.NewNop())
	return New(repoDir, cfg, branches, autoStore, zap.NewNop()), autoStore
}

func TestTagMessage(t *testing.T) {
	assert.Equal(t, "[AI-AGENT] fix bug", TagMessage("fix bug"))
	// Already tagged messages are left alone.
	assert.Equal(t, "[AI-AGENT] fix bug", TagMessage("[AI-AGENT] fix bug"))
}

func TestStatus(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)

	st, err := auto.Status()
	require.NoError(t, err)
	assert.Equal(t, "main", st.Branch)
	assert.True(t, st.Clean)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "new.txt"), []byte("x"), 0o644))
	st, err = auto.Status()
	require.NoError(t, err)
	assert.False(t, st.Clean)
	assert.Equal(t, []string{"new.txt"}, st.Untracked)
}

func TestStage_RequiresFilesOrAll(t *testing.T) {
	auto, _ := newTestAutomation(t, initTempRepo(t))
	res := auto.Stage(nil, false)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "no files")
}

func TestCommit_NothingToCommit(t *testing.T) {
	auto, _ := newTestAutomation(t, initTempRepo(t))

	res := auto.Commit("should not land", nil)
	assert.False(t, res.OK)
	assert.Empty(t, res.Hash)
	assert.Equal(t, "nothing to commit", res.Detail)
}

func TestCommit_TagsAndRecords(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, store := newTestAutomation(t, repoDir)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "f.txt"), []byte("x"), 0o644))
	require.True(t, auto.Stage(nil, true).OK)

	res := auto.Commit("add feature", nil)
	require.True(t, res.OK, res.Detail)
	assert.NotEmpty(t, res.Hash)

	subject := strings.TrimSpace(runCmd(t, repoDir, "git", "log", "-1", "--pretty=%s"))
	assert.Equal(t, "[AI-AGENT] add feature", subject)

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "commit", entries[0]["action"])
	assert.Equal(t, res.Hash, entries[0]["commit_hash"])
	assert.Equal(t, "success", entries[0]["status"])
}

func TestCommit_TagNotDuplicated(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "f.txt"), []byte("x"), 0o644))
	require.True(t, auto.Stage(nil, true).OK)

	res := auto.Commit("[AI-AGENT] already tagged", nil)
	require.True(t, res.OK, res.Detail)

	subject := strings.TrimSpace(runCmd(t, repoDir, "git", "log", "-1", "--pretty=%s"))
	assert.Equal(t, "[AI-AGENT] already tagged", subject)
}

func TestCommit_ExplicitAuthor(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "f.txt"), []byte("x"), 0o644))
	require.True(t, auto.Stage(nil, true).OK)

	res := auto.Commit("authored", &Author{Name: "Saiyam Kumar", Email: "saiyam@example.com"})
	require.True(t, res.OK, res.Detail)

	author := strings.TrimSpace(runCmd(t, repoDir, "git", "log", "-1", "--pretty=%an <%ae>"))
	assert.Equal(t, "Saiyam Kumar <saiyam@example.com>", author)
}

func TestPush_ProtectedBranchRefused(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, store := newTestAutomation(t, repoDir)
	// No remote is configured: the guard must trip before any network I/O,
	// so no "remote not found" error can surface.
	for _, name := range []string{"main", "master"} {
		res := auto.Push("origin", name, false)
		assert.False(t, res.OK)
		assert.Contains(t, res.Detail, "protected")
	}

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "push", e["action"])
		assert.Equal(t, "blocked", e["status"])
	}
}

func TestPush_ProtectedGuardIgnoresForce(t *testing.T) {
	auto, _ := newTestAutomation(t, initTempRepo(t))
	res := auto.Push("origin", "main", true)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "protected")
}

func TestPush_DefaultsToCurrentBranch(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)

	// Current branch is main, which is protected.
	res := auto.Push("origin", "", false)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "protected")
}

func TestPush_FeatureBranchSucceeds(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, store := newTestAutomation(t, repoDir)
	remoteDir := addBareRemote(t, repoDir)

	runCmd(t, repoDir, "git", "checkout", "-b", "feature/push")
	res := auto.Push("origin", "", false)
	require.True(t, res.OK, res.Detail)

	out := runCmd(t, remoteDir, "git", "branch", "--list", "feature/push")
	assert.Contains(t, out, "feature/push")

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "success", entries[0]["status"])
	assert.Equal(t, "feature/push", entries[0]["branch"])
}

func TestPull(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)
	addBareRemote(t, repoDir)

	res := auto.Pull("origin", "main")
	assert.True(t, res.OK, res.Detail)

	res = auto.Pull("origin", "no-such-branch")
	assert.False(t, res.OK)
}

func TestRunFlow_FullSuccess(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)
	remoteDir := addBareRemote(t, repoDir)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "fix.txt"), []byte("patched"), 0o644))

	res := auto.RunFlow("apply automated fix", true, "origin")
	assert.Empty(t, res.FailedStep)
	assert.Equal(t, "CODE_WARRIORS_JANE_DOE_AI_Fix", res.Branch)
	assert.True(t, res.Staged)
	assert.NotEmpty(t, res.Commit)
	assert.True(t, res.Pushed)

	out := runCmd(t, remoteDir, "git", "branch", "--list", "CODE_WARRIORS_JANE_DOE_AI_Fix")
	assert.Contains(t, out, "CODE_WARRIORS_JANE_DOE_AI_Fix")
}

func TestRunFlow_StopsAtCommitWhenClean(t *testing.T) {
	repoDir := initTempRepo(t)
	auto, _ := newTestAutomation(t, repoDir)
	addBareRemote(t, repoDir)

	res := auto.RunFlow("no changes", true, "origin")
	assert.Equal(t, "commit", res.FailedStep)
	assert.NotEmpty(t, res.Branch)
	assert.True(t, res.Staged)
	assert.Empty(t, res.Commit)
	assert.False(t, res.Pushed)
}

func TestRunFlow_AbortsWhenBranchFails(t *testing.T) {
	// Not a repository at all: the branch step fails and nothing later runs.
	auto, _ := newTestAutomation(t, t.TempDir())

	res := auto.RunFlow("never lands", true, "origin")
	assert.Equal(t, "branch", res.FailedStep)
	assert.Empty(t, res.Branch)
	assert.False(t, res.Staged)
	assert.Empty(t, res.Commit)
	assert.False(t, res.Pushed)
}
