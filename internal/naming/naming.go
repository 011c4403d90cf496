// Package naming produces the canonical branch identifiers used across the
// automation: <TEAM>_<LEADER>_AI_Fix, where team and leader are normalized
// to uppercase alphanumeric tokens.
package naming

import "strings"

// BranchSuffix is the fixed tail of every generated branch name.
// It is case-sensitive and never normalized.
const BranchSuffix = "AI_Fix"

// NormalizeToken turns an arbitrary team or leader string into an uppercase,
// underscore-joined token: surrounding whitespace is trimmed, internal spaces
// become underscores, and every character outside [A-Za-z0-9_] is dropped.
// The function is total and idempotent; empty input yields an empty token.
func NormalizeToken(raw string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	var b strings.Builder
	b.Grow(len(cleaned))
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// BranchName composes the canonical branch name for a team/leader pair.
// The result is deterministic: inputs that normalize identically yield the
// same branch name.
func BranchName(team, leader string) string {
	return NormalizeToken(team) + "_" + NormalizeToken(leader) + "_" + BranchSuffix
}
