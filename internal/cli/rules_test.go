package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuleLines(t *testing.T) {
	path := writeRules(t, "TL == 1\nBL == TL\n")

	lines, err := loadRuleLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TL == 1", "BL == TL"}, lines)
}

func TestLoadRuleLinesKeepsBlanks(t *testing.T) {
	// Blank lines are not stripped here; they surface later as parse
	// errors of their own.
	path := writeRules(t, "TL == 1\n\nBL == TL\n")

	lines, err := loadRuleLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"TL == 1", "", "BL == TL"}, lines)
}

func TestLoadRuleLinesMissingFile(t *testing.T) {
	_, err := loadRuleLines(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestLoadRuleSetConcatenatesInOrder(t *testing.T) {
	main := writeRules(t, "TL == 1\n")
	extra := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(extra, []byte("BL == 1\n"), 0o644))

	lines, rules, err := loadRuleSet(main, []string{extra})
	require.NoError(t, err)
	assert.Equal(t, []string{"TL == 1", "BL == 1"}, lines)
	require.Len(t, rules, 2)
	assert.Equal(t, "TL == 1", rules[0].Source)
	assert.Equal(t, "BL == 1", rules[1].Source)
}

func TestLoadRuleSetCollectsAllParseErrors(t *testing.T) {
	path := writeRules(t, "TL = 1\nBL == 1\nx &&\n")

	_, _, err := loadRuleSet(path, nil)
	require.Error(t, err)
	assert.Equal(t, 2, strings.Count(err.Error(), "Parse error: "))
}
