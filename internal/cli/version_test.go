package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/wfm/internal/buildinfo"
)

// resetVersionFlags resets the version command's local flag state so tests
// do not leak state between runs.
func resetVersionFlags(t *testing.T) {
	t.Helper()
	resetRootCmd(t)
	versionJSON = false
	versionCmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func TestVersionCmd_HumanReadable(t *testing.T) {
	resetVersionFlags(t)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	rootCmd.SetArgs([]string{"version"})

	code := Execute()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, 0, code, "exit code should be 0")

	output := buf.String()
	assert.Contains(t, output, "wfm v", "output should contain 'wfm v' prefix")
	assert.Contains(t, output, buildinfo.Version, "output should contain the version")
	assert.Contains(t, output, buildinfo.Commit, "output should contain the commit")
	assert.Contains(t, output, buildinfo.Date, "output should contain the date")
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	resetVersionFlags(t)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	rootCmd.SetArgs([]string{"version", "--json"})

	code := Execute()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, 0, code, "exit code should be 0")

	output := buf.Bytes()

	var parsed map[string]string
	err = json.Unmarshal(output, &parsed)
	require.NoError(t, err, "output must be valid JSON")

	assert.Contains(t, parsed, "version", "JSON must contain 'version' field")
	assert.Contains(t, parsed, "commit", "JSON must contain 'commit' field")
	assert.Contains(t, parsed, "date", "JSON must contain 'date' field")
	assert.Len(t, parsed, 3, "JSON should contain exactly 3 fields")

	assert.Equal(t, buildinfo.Version, parsed["version"])
	assert.Equal(t, buildinfo.Commit, parsed["commit"])
	assert.Equal(t, buildinfo.Date, parsed["date"])
}

func TestVersionCmd_JSONOutput_Indented(t *testing.T) {
	resetVersionFlags(t)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	rootCmd.SetArgs([]string{"version", "--json"})

	code := Execute()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, 0, code)

	output := buf.String()
	assert.Contains(t, output, "{\n", "JSON should be indented with newlines")
	assert.Contains(t, output, "  \"version\"", "JSON should use 2-space indent")
}

func TestVersionCmd_RejectsExtraArgs(t *testing.T) {
	resetVersionFlags(t)

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	t.Cleanup(func() {
		os.Stderr = oldStderr
	})

	rootCmd.SetArgs([]string{"version", "unexpected-arg"})

	code := Execute()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stderr = oldStderr

	assert.Equal(t, 1, code, "extra args should cause exit code 1")
	assert.Contains(t, buf.String(), "unknown command",
		"error should indicate the unexpected argument")
}

func TestVersionCmd_RegisteredInRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "version" {
			found = true
			break
		}
	}
	assert.True(t, found, "version command must be registered in rootCmd")
}

func TestVersionCmd_Metadata(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Show wfm version and build information", versionCmd.Short)
	assert.Contains(t, versionCmd.Long, "version")
	assert.Contains(t, versionCmd.Long, "git commit")
	assert.Contains(t, versionCmd.Long, "build date")
}

func TestVersionCmd_JSONFlag_Registered(t *testing.T) {
	flag := versionCmd.Flags().Lookup("json")
	require.NotNil(t, flag, "--json flag must be registered")
	assert.Equal(t, "false", flag.DefValue, "--json default should be false")
}

func TestVersionCmd_OutputToStdout_NotStderr(t *testing.T) {
	resetVersionFlags(t)

	oldStdout := os.Stdout
	rOut, wOut, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = wOut

	oldStderr := os.Stderr
	rErr, wErr, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = wErr

	t.Cleanup(func() {
		os.Stdout = oldStdout
		os.Stderr = oldStderr
	})

	rootCmd.SetArgs([]string{"version"})

	code := Execute()

	wOut.Close()
	wErr.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	_, _ = stdoutBuf.ReadFrom(rOut)
	_, _ = stderrBuf.ReadFrom(rErr)

	os.Stdout = oldStdout
	os.Stderr = oldStderr

	assert.Equal(t, 0, code)
	assert.Contains(t, stdoutBuf.String(), "wfm v",
		"version output should go to stdout")
	assert.NotContains(t, stderrBuf.String(), "wfm v",
		"version output should not go to stderr")
}

func TestVersionCmd_JSONRoundTrip(t *testing.T) {
	resetVersionFlags(t)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	rootCmd.SetArgs([]string{"version", "--json"})

	code := Execute()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, 0, code)

	var info buildinfo.Info
	err = json.Unmarshal(buf.Bytes(), &info)
	require.NoError(t, err, "JSON output should unmarshal to buildinfo.Info")

	expected := buildinfo.GetInfo()
	assert.Equal(t, expected, info, "round-tripped Info should match GetInfo()")
}
