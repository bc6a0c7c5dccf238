package check

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/annocheck/internal/ast"
	"github.com/roach88/annocheck/internal/labelme"
	"github.com/roach88/annocheck/internal/parser"
)

func mustRules(t *testing.T, lines ...string) []ast.Rule {
	t.Helper()
	rules, err := parser.ParseRules(lines)
	require.NoError(t, err)
	return rules
}

func pointRecord(flags string, labels ...string) labelme.Record {
	rec := labelme.Record{}
	if flags != "" {
		var f labelme.Flags
		if err := json.Unmarshal([]byte(flags), &f); err != nil {
			panic(err)
		}
		rec.Flags = f
	}
	for _, label := range labels {
		rec.Shapes = append(rec.Shapes, labelme.Shape{
			Label:     label,
			Points:    []labelme.Point{{1, 2}},
			ShapeType: labelme.ShapeTypePoint,
		})
	}
	return rec
}

func TestChecker_PassingRules(t *testing.T) {
	c := New(mustRules(t, "TL > 0", "X == 0"), nil, nil)

	res, err := c.CheckRecord(pointRecord("", "TL"))
	require.NoError(t, err)
	assert.Equal(t, Passed, res)
}

func TestChecker_SingleFailure(t *testing.T) {
	c := New(mustRules(t, "TL == 0"), nil, nil)

	_, err := c.CheckRecord(pointRecord("", "TL"))
	var single *UnsatisfiedRuleError
	require.ErrorAs(t, err, &single)
	assert.Equal(t, "TL == 0", single.Rule)
	assert.Equal(t, int64(1), single.Lhs)
	assert.Equal(t, int64(0), single.Rhs)
	assert.Equal(t, `Unsatisfied rule; "TL == 0": 1 vs. 0`, err.Error())
}

func TestChecker_MultipleFailuresKeepRuleOrder(t *testing.T) {
	c := New(mustRules(t, "TL == 0", "TR == 1"), nil, nil)

	_, err := c.CheckRecord(pointRecord("", "TL"))
	var multi *UnsatisfiedRulesError
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Failures, 2)
	assert.Equal(t, RuleFailure{Rule: "TL == 0", Lhs: 1, Rhs: 0}, multi.Failures[0])
	assert.Equal(t, RuleFailure{Rule: "TR == 1", Lhs: 0, Rhs: 1}, multi.Failures[1])

	// Two spaces after the comma: each entry keeps its leading space.
	assert.Equal(t, `Unsatisfied rules; "TL == 0": 1 vs. 0,  "TR == 1": 0 vs. 1`, err.Error())
}

func TestChecker_RuleArithmetic(t *testing.T) {
	c := New(mustRules(t, "TL == BL + 1"), nil, nil)

	_, err := c.CheckRecord(pointRecord("", "TL", "BL"))
	var single *UnsatisfiedRuleError
	require.ErrorAs(t, err, &single)
	assert.Equal(t, int64(1), single.Lhs)
	assert.Equal(t, int64(2), single.Rhs)

	res, err := c.CheckRecord(pointRecord("", "TL", "TL", "BL"))
	require.NoError(t, err)
	assert.Equal(t, Passed, res)
}

func TestChecker_VacuousRuleAlwaysPasses(t *testing.T) {
	// A rule with no comparison cannot fail.
	c := New(mustRules(t, "TL + 1"), nil, nil)

	res, err := c.CheckRecord(pointRecord(""))
	require.NoError(t, err)
	assert.Equal(t, Passed, res)
}

func TestChecker_FlagGate(t *testing.T) {
	rules := mustRules(t, "TL > 0")
	rec := pointRecord(`{"f1": true, "f2": false}`, "TL")

	tests := []struct {
		name     string
		required labelme.FlagSet
		ignored  labelme.FlagSet
		want     CheckResult
	}{
		{"no filters evaluates", nil, nil, Passed},
		{"required flag is true", labelme.NewFlagSet("f1"), nil, Passed},
		{"required flag is false", labelme.NewFlagSet("f2"), nil, Skipped},
		{"required flag is absent", labelme.NewFlagSet("fx"), nil, Skipped},
		{"ignored flag is true", nil, labelme.NewFlagSet("f1"), Skipped},
		{"ignored flag is false", nil, labelme.NewFlagSet("f2"), Passed},
		{"ignore wins over required", labelme.NewFlagSet("f1"), labelme.NewFlagSet("f1"), Skipped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(rules, tt.required, tt.ignored)
			res, err := c.CheckRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestChecker_SkippedRecordNeverEvaluates(t *testing.T) {
	// The record would fail the rule, but the gate excludes it first.
	c := New(mustRules(t, "TL == 99"), labelme.NewFlagSet("absent"), nil)

	res, err := c.CheckRecord(pointRecord(`{"f1": true}`, "TL"))
	require.NoError(t, err)
	assert.Equal(t, Skipped, res)
}

func TestBindLabels(t *testing.T) {
	shapes := []labelme.Shape{
		{Label: "TL", ShapeType: "point"},
		{Label: "box", ShapeType: "rectangle"},
		{Label: "BL", ShapeType: "point"},
		{Label: "TL", ShapeType: "point"},
	}

	binds := BindLabels(shapes)
	require.Len(t, binds, 2)
	assert.Equal(t, "TL", binds[0].Label)
	assert.Equal(t, int64(2), binds[0].Count)
	assert.Equal(t, "BL", binds[1].Label)
	assert.Equal(t, int64(1), binds[1].Count)
}

func TestBindLabels_NonPointShapesInvisible(t *testing.T) {
	shapes := []labelme.Shape{
		{Label: "a", ShapeType: "rectangle"},
		{Label: "b", ShapeType: "polygon"},
	}
	assert.Empty(t, BindLabels(shapes))
}

func TestEvaluateRules_AppliesNoGate(t *testing.T) {
	rules := mustRules(t, "TL == 1", "BL == 5")
	binds := BindLabels([]labelme.Shape{{Label: "TL", ShapeType: "point"}})

	failures := EvaluateRules(rules, binds)
	require.Len(t, failures, 1)
	assert.Equal(t, "BL == 5", failures[0].Rule)
}

func TestChecker_CheckBytes(t *testing.T) {
	c := New(mustRules(t, "TL == 1"), nil, nil)

	res, err := c.CheckBytes([]byte(`{"shapes": [{"label": "TL", "points": [[0,0]], "shape_type": "point", "flags": {}}], "flags": {}}`))
	require.NoError(t, err)
	assert.Equal(t, Passed, res)

	_, err = c.CheckBytes([]byte(`{broken`))
	var invalid *InvalidJSONError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "Invalid JSON: ")
}

func TestChecker_CheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"shapes": [], "flags": {}}`), 0o644))

	c := New(mustRules(t, "TL == 0"), nil, nil)

	res, err := c.CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, Passed, res)

	_, err = c.CheckFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, "File not found", err.Error())
}
