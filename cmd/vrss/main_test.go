// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarios = `[
  {"sv": {"x": 0, "y": 0, "velX": 5, "accelX": 0},
   "povs": [{"agent": {"x": 1, "y": 3, "velX": 4, "accelX": -1}}]},
  {"sv": {"x": 0, "y": 0, "velX": 5, "accelX": 0},
   "povs": [{"agent": {"x": 3, "y": 3, "velX": 4, "accelX": -1}}]},
  {"sv": {"x": 0, "y": 5, "velX": 1, "accelX": 0},
   "povs": [{"agent": {"x": 5, "y": 9, "velX": 1, "accelX": 0}},
            {"agent": {"x": 0.5, "y": 6.5, "velX": 2.0, "accelX": 0.5}}]}
]`

// resetFlags restores every flag in the command tree to its default so
// values set by one run do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and stdin, returning stdout. Each call
// starts from fresh viper state and default flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	setDefaults()
	resetFlags(rootCmd)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootFilter(t *testing.T) {
	out, err := execute(t, scenarios)
	require.NoError(t, err)
	assert.Equal(t, "0 0 5 0 1 3 4 -1\n0 5 1 0 0.5 6.5 2.0 0.5\n", out)
}

func TestRootFilterIgnoresEnvironment(t *testing.T) {
	t.Setenv("VRSS_EXTRACT_LATERAL_WIDTH", "4")

	out, err := execute(t, scenarios)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))

	// The extract subcommand does read the environment.
	out, err = execute(t, scenarios, "extract")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestRootFilterAfterWiderExtract(t *testing.T) {
	_, err := execute(t, scenarios, "extract", "--lateral-width", "4")
	require.NoError(t, err)

	out, err := execute(t, scenarios)
	require.NoError(t, err)
	assert.Equal(t, "0 0 5 0 1 3 4 -1\n0 5 1 0 0.5 6.5 2.0 0.5\n", out)
}

func TestRootFilterEmptyInput(t *testing.T) {
	out, err := execute(t, "[]")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRootFilterMissingField(t *testing.T) {
	out, err := execute(t, `[{"sv": {"x": 0, "y": 0, "velX": 5}, "povs": []}]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `record 0: sv: missing field "accelX"`)
	assert.Empty(t, out)
}

func TestRootFilterMalformed(t *testing.T) {
	_, err := execute(t, `[{`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenarios")
}

func TestExtractLogfmt(t *testing.T) {
	out, err := execute(t, scenarios, "extract", "--format", "logfmt", "--lateral-width", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "record=2 pov=1 x_b=0 y_b=5 v_b=1 a_b=0 x_f=0.5 y_f=6.5 v_f=2.0 a_f=0.5", lines[1])
}

func TestExtractWiderCorridor(t *testing.T) {
	out, err := execute(t, scenarios, "extract", "--format", "text", "--lateral-width", "4")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestExtractRejectsNonPositiveWidth(t *testing.T) {
	for _, cmd := range []string{"extract", "predicates"} {
		out, err := execute(t, scenarios, cmd, "--lateral-width=-1")
		require.Error(t, err, cmd)
		assert.Contains(t, err.Error(), "lateral_width must be positive")
		assert.Empty(t, out)
	}
}

func TestExtractSaveThenShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, scenarios, "extract", "--format", "text", "--lateral-width", "2", "--save", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "", "runs", "show", "1", "--format", "text", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "0 0 5 0 1 3 4 -1\n0 5 1 0 0.5 6.5 2.0 0.5\n", out)

	out, err = execute(t, "", "runs", "list", "--json", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `"matched": 2`)
	assert.Contains(t, out, `"records": 3`)
}

func TestPredicates(t *testing.T) {
	out, err := execute(t, scenarios, "predicates", "--format", "text", "--lateral-width", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, strings.Fields(lines[0]), 8)
	// p1 = y_f - y_b = 3 for the first signal.
	assert.Equal(t, "3.0", strings.Fields(lines[0])[1])
}

func TestPredicatesNormalize(t *testing.T) {
	out, err := execute(t, scenarios, "predicates", "--normalize")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[0])
	require.Len(t, fields, 8)
	// p1 = 3 over reference 100; p6 = 5 over reference 10.
	assert.Equal(t, "0.03", fields[1])
	assert.Equal(t, "0.5", fields[6])
}

func TestPredicatesRejectsInvalidBraking(t *testing.T) {
	_, err := execute(t, scenarios, "predicates", "--a-min-br", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a_min_br")
}

func TestRunsDelete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, scenarios, "extract", "--save", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "", "runs", "delete", "1", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Deleted run 1\n", out)

	_, err = execute(t, "", "runs", "show", "1", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 1 not found")

	_, err = execute(t, "", "runs", "delete", "1", "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 1 not found")
}

func TestRunsExportFormatIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	path := filepath.Join(dir, "export.yaml")

	_, err := execute(t, scenarios, "extract", "--save", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "", "runs", "export", "--format", "YAML", "--out", path, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Exported to "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "x_b: 0")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "vrss dev\n", out)
}
