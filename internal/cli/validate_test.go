package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annocheck/internal/store"
	"github.com/roach88/annocheck/internal/testutil"
)

func writeRules(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func newValidate(verbose int) (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Verbose: verbose}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	return cmd, buf
}

func TestValidatePassAndFail(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"a.json": testutil.PointAnnotation(nil, "TL"),
		"b.json": testutil.PointAnnotation(nil, "TL", "TL"),
	})

	cmd, buf := newValidate(1)
	cmd.SetArgs([]string{rules, input, "--stats"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"a.json,\n"+
			"b.json,Unsatisfied rule; \"TL == 1\": 2 vs. 1\n"+
			"1 / 2 annotations are valid.\n",
		buf.String())
}

func TestValidateQuietPrintsOnlyFailures(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"good.json": testutil.PointAnnotation(nil, "TL"),
	})

	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{rules, input})

	require.NoError(t, cmd.Execute())
	assert.Empty(t, buf.String())
}

func TestValidateFlagGate(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"tagged.json": testutil.PointAnnotation(map[string]bool{"keep": true}, "TL", "TL"),
		"plain.json":  testutil.PointAnnotation(nil, "TL", "TL"),
	})

	// Only "keep"-flagged records are checked, so the unflagged failure
	// never surfaces.
	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{rules, input, "--flag", "keep", "--stats"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"tagged.json,Unsatisfied rule; \"TL == 1\": 2 vs. 1\n"+
			"0 / 1 annotations are valid.\n",
		buf.String())
}

func TestValidateIgnoreFlag(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"draft.json": testutil.PointAnnotation(map[string]bool{"draft": true}, "TL", "TL"),
		"live.json":  testutil.PointAnnotation(nil, "TL"),
	})

	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{rules, input, "--ignore", "draft", "--stats"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1 / 1 annotations are valid.\n", buf.String())
}

func TestValidateAdditionalRules(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	extra := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(extra, []byte("BL == 1\n"), 0o644))
	input := testutil.WriteTree(t, map[string]string{
		"a.json": testutil.PointAnnotation(nil, "TL"),
	})

	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{rules, input, "--additional", extra})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "a.json,Unsatisfied rule; \"BL == 1\": 0 vs. 1\n", buf.String())
}

func TestValidateBadRuleFails(t *testing.T) {
	rules := writeRules(t, "TL =\nBL & 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"a.json": testutil.PointAnnotation(nil, "TL"),
	})

	cmd, _ := newValidate(0)
	cmd.SetArgs([]string{rules, input})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	// Both bad rules are reported in one pass.
	assert.Contains(t, err.Error(), "Parse error: ")
	assert.Contains(t, err.Error(), "TL =")
	assert.Contains(t, err.Error(), "BL & 1")
}

func TestValidateMissingInput(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")

	cmd, _ := newValidate(0)
	cmd.SetArgs([]string{rules, filepath.Join(t.TempDir(), "missing")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateArgCount(t *testing.T) {
	cmd, _ := newValidate(0)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateRulesRequiredWithoutProfile(t *testing.T) {
	input := testutil.WriteTree(t, map[string]string{
		"a.json": testutil.PointAnnotation(nil, "TL"),
	})

	cmd, _ := newValidate(0)
	cmd.SetArgs([]string{input})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "rules file")
}

func TestValidateProfileSuppliesSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.txt"), []byte("TL == 1\n"), 0o644))
	profile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("rules: rules.txt\nstats: true\nignores: [draft]\n"), 0o644))

	input := testutil.WriteTree(t, map[string]string{
		"draft.json": testutil.PointAnnotation(map[string]bool{"draft": true}, "TL", "TL"),
		"live.json":  testutil.PointAnnotation(nil, "TL"),
	})

	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{input, "--profile", profile})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "1 / 1 annotations are valid.\n", buf.String())
}

func TestValidateFlagsBeatProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.txt"), []byte("TL == 1\n"), 0o644))
	profile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("rules: rules.txt\nignores: [draft]\n"), 0o644))

	input := testutil.WriteTree(t, map[string]string{
		"draft.json": testutil.PointAnnotation(map[string]bool{"draft": true}, "TL", "TL"),
	})

	// An explicit --ignore overrides the profile's list, so the draft
	// record is checked after all.
	cmd, buf := newValidate(0)
	cmd.SetArgs([]string{input, "--profile", profile, "--ignore", "other"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "draft.json,Unsatisfied rule; \"TL == 1\": 2 vs. 1\n", buf.String())
}

func TestValidateReportRecordsRun(t *testing.T) {
	rules := writeRules(t, "TL == 1\n")
	input := testutil.WriteTree(t, map[string]string{
		"bad.json":  testutil.PointAnnotation(nil, "TL", "TL"),
		"good.json": testutil.PointAnnotation(nil, "TL"),
		"skip.json": testutil.PointAnnotation(map[string]bool{"draft": true}, "TL"),
	})
	db := filepath.Join(t.TempDir(), "runs.db")

	cmd, _ := newValidate(0)
	cmd.SetArgs([]string{rules, input, "--ignore", "draft", "--report", db})
	require.NoError(t, cmd.Execute())

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runs, err := st.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, input, runs[0].Root)
	assert.Equal(t, []string{"TL == 1"}, runs[0].Rules)
	assert.Equal(t, int64(2), runs[0].Checked)
	assert.Equal(t, int64(1), runs[0].Valid)

	verdicts, err := st.RunVerdicts(ctx, runs[0].ID)
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	assert.Equal(t, []string{"bad.json", "good.json", "skip.json"},
		[]string{verdicts[0].Path, verdicts[1].Path, verdicts[2].Path})
	assert.Equal(t, store.OutcomeFailed, verdicts[0].Outcome)
	assert.Contains(t, verdicts[0].Detail, "Unsatisfied rule")
	assert.Equal(t, store.OutcomePassed, verdicts[1].Outcome)
	assert.Equal(t, store.OutcomeSkipped, verdicts[2].Outcome)
}
