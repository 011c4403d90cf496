package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "history.json"), zap.NewNop())
}

func TestEnsure_CreatesEmptyArray(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure())

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	// Idempotent: a second Ensure must not truncate existing content.
	s.Append(NewEntry("test"))
	require.NoError(t, s.Ensure())
	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_SequentialOrdering(t *testing.T) {
	s := newTestStore(t)

	const n = 5
	for i := 0; i < n; i++ {
		s.Append(NewEntry("push").With("seq", i))
	}

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, n)
	for i, e := range entries {
		assert.Equal(t, "push", e["action"])
		assert.EqualValues(t, i, e["seq"])
		assert.NotEmpty(t, e["timestamp"])
	}
}

func TestAppend_MissingFileTreatedAsEmpty(t *testing.T) {
	s := newTestStore(t)
	// No Ensure call: the file does not exist yet.
	s.Append(NewEntry("clone"))

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_BlankFileTreatedAsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("   \n"), 0o644))

	s.Append(NewEntry("commit"))
	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppend_MalformedFileDoesNotPanicOrFail(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	// The malformed content counts as zero prior entries.
	s.Append(NewEntry("push").With("branch", "feature"))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "feature", entries[0]["branch"])
}

func TestAppend_PrettyPrinted(t *testing.T) {
	s := newTestStore(t)
	s.Append(NewEntry("clone").With("repo_url", "https://example.com/r.git"))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	// Human-diffable output: indented, one field per line.
	assert.Contains(t, string(data), "\n  {")
	assert.Contains(t, string(data), `"repo_url"`)
}

func TestEntries_MissingFile(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
