package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizval/internal/model"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"value", "batch", "serve", "migrate", "industry"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bizval", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestValueCommand_Flags(t *testing.T) {
	flag := valueCmd.Flags().Lookup("save")
	require.NotNil(t, flag, "value command should have --save flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "concurrency", "save"} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "batch should have --%s flag", name)
	}
	assert.Equal(t, "0", batchCmd.Flags().Lookup("concurrency").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestIndustryCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range industryCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["seed"])

	flag := industrySeedCmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, "configs/multipliers.yaml", flag.DefValue)
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("BIZVAL_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestValueCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"revenue":1000000,"ebitda":100000,"industry":"Manufacturing"}`), 0o644))

	var result model.Result
	require.NoError(t, json.Unmarshal([]byte(execute(t, "value", path)), &result))

	assert.Equal(t, model.MultipleEBITDA, result.MultipleType)
	assert.Equal(t, 540000.0, result.EstimatedValue)
	assert.Equal(t, 66, result.Confidence)
}

func TestIndustryCommand_Resolve(t *testing.T) {
	var p model.IndustryProfile
	require.NoError(t, json.Unmarshal([]byte(execute(t, "industry", "manufacturing")), &p))

	assert.Equal(t, "Manufacturing", p.Industry)
	assert.Equal(t, 4.0, p.EBITDAMultiplier)
}

func TestIndustryListCommand(t *testing.T) {
	out := execute(t, "industry", "list")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "INDUSTRY"))
	assert.Contains(t, out, "Manufacturing")
	assert.Contains(t, out, model.DefaultIndustry)
}

func TestReadSubmission(t *testing.T) {
	raw, err := readSubmission(strings.NewReader(`{"revenue":"250,000"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "250,000", raw["revenue"])

	raw, err = readSubmission(strings.NewReader(`{"ebitda":1}`), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, raw["ebitda"])

	raw, err = readSubmission(strings.NewReader(`null`), nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = readSubmission(strings.NewReader(`[1,2]`), nil)
	assert.Error(t, err)

	_, err = readSubmission(nil, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
