package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTrace = "#0 _propagate (dart:async/future_impl.dart:453)\n" +
	"#1 _run.<anonymous closure> (package:unittest/src/case.dart:110:30)\n" +
	"#2 main.<anonymous closure> (chrome-extension://abcd1234/test/foo.dart:35:9)\n"

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func runCommandErr(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestCanonCommand(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	out := runCommand(t, "canon", path)
	want := "_run.<anon> package:unittest/src/case.dart:110:30\n" +
		"main.<anon> test/foo.dart:35:9\n"
	assert.Equal(t, want, out)
}

func TestCanonCommandGzipInput(t *testing.T) {
	path := writeTempTraceGz(t, "trace.txt.gz", sampleTrace)

	out := runCommand(t, "canon", path)
	assert.Contains(t, out, "main.<anon> test/foo.dart:35:9")
}

func TestCanonCommandEmptyInput(t *testing.T) {
	path := writeTempTrace(t, "empty.txt", "")
	assert.Equal(t, "", runCommand(t, "canon", path))
}

func TestCanonCommandWithConfig(t *testing.T) {
	tracePath := writeTempTrace(t, "trace.txt", sampleTrace)
	cfgPath := writeTempTrace(t, "stacktidy.toml", "keep_internal_run = true\n")

	out := runCommand(t, "canon", "--config", cfgPath, tracePath)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestFramesCommand(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	out := runCommand(t, "frames", path)
	assert.Contains(t, out, "METHOD")
	assert.Contains(t, out, "main.<anon>")
	assert.Contains(t, out, "vm")
}

func TestFramesCommandNoFrames(t *testing.T) {
	path := writeTempTrace(t, "empty.txt", "\n\n")
	assert.Equal(t, "no frames\n", runCommand(t, "frames", path))
}

func TestFilterCommandWhere(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	out := runCommand(t, "filter", "--where", "not internal", path)
	assert.Equal(t, "main.<anon> test/foo.dart:35:9\n", out)
}

func TestFilterCommandMethod(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	out := runCommand(t, "filter", "-m", "_run", path)
	assert.Equal(t, "_run.<anon> package:unittest/src/case.dart:110:30\n", out)
}

func TestFilterCommandNoMatch(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	out := runCommand(t, "filter", "-m", "Nonexistent", path)
	assert.Equal(t, "no frames matching 'Nonexistent'\n", out)
}

func TestFilterCommandFlagValidation(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace)

	assert.Error(t, runCommandErr(t, "filter", path))
	assert.Error(t, runCommandErr(t, "filter", "--where", "internal", "-m", "main", path))
}

func TestExportCommand(t *testing.T) {
	tracePath := writeTempTrace(t, "trace.txt", sampleTrace)
	outPath := filepath.Join(t.TempDir(), "trace.pb.gz")

	out := runCommand(t, "export", "-o", outPath, tracePath)
	assert.Contains(t, out, "wrote 2 frame(s)")

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := profile.Parse(f)
	require.NoError(t, err)
	require.Len(t, parsed.Sample, 1)
	assert.Len(t, parsed.Sample[0].Location, 2)
}

func TestSummaryCommand(t *testing.T) {
	path := writeTempTrace(t, "trace.txt", sampleTrace+"free text line\n")

	out := runCommand(t, "summary", path)
	assert.Contains(t, out, "Frames:      4")
	assert.Contains(t, out, "Recognized:  3 (vm: 3, js: 0, js-annot: 0)")
	assert.Contains(t, out, "Internal:    2")
	assert.Contains(t, out, "Application: 2")
	assert.Contains(t, out, "Trimmed:     1 leading runtime frame(s)")
}

func TestConfigCommand(t *testing.T) {
	out := runCommand(t, "config")
	assert.Contains(t, out, "internal_markers")
	assert.Contains(t, out, "keep_internal_run")
}
