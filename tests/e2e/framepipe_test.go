// Package e2e contains end-to-end tests for the framepipe CLI.
package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// getBinaryName returns the test binary name with platform-specific extension
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "framepipe-test.exe"
	}
	return "framepipe-test"
}

// getBinaryPath returns the path to execute the test binary.
// FRAMEPIPE_BINARY overrides it for CI with pre-built binaries.
func getBinaryPath(t *testing.T) string {
	if path := os.Getenv("FRAMEPIPE_BINARY"); path != "" {
		return path
	}
	return filepath.Join(getProjectRoot(t), getBinaryName())
}

// buildBinary builds the CLI unless a pre-built binary is provided.
func buildBinary(t *testing.T) {
	t.Helper()
	if os.Getenv("FRAMEPIPE_E2E") != "1" {
		t.Skip("Skipping E2E test (set FRAMEPIPE_E2E=1 to run)")
	}
	if os.Getenv("FRAMEPIPE_BINARY") != "" {
		return
	}

	root := getProjectRoot(t)
	buildCmd := exec.Command("go", "build", "-o", getBinaryName(), "./cmd/framepipe")
	buildCmd.Dir = root
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\n%s", err, out)
	}
	t.Cleanup(func() { os.Remove(filepath.Join(root, getBinaryName())) })
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getBinaryPath(t), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestRunCommand runs the pattern source through two outputs.
func TestRunCommand(t *testing.T) {
	buildBinary(t)

	dir := t.TempDir()
	frames := filepath.Join(dir, "frames")
	summary := filepath.Join(dir, "summary.md")

	stdout, stderr, err := run(t,
		"run",
		"--frames", "12",
		"--pattern-size", "160x120",
		"--crop", "64x64",
		"--cursor", "80,60",
		"--model", "grayscale",
		"--output", "frames="+frames+":2",
		"--output", "discard:1",
		"--summary", summary,
		"--quiet",
	)
	if err != nil {
		t.Fatalf("run failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}

	entries, err := os.ReadDir(frames)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 12 {
		t.Errorf("expected 12 frame files, got %d", len(entries))
	}

	data, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, want := range []string{"| frames | 12 |", "| discard | 12 |", "grayscale"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("summary missing %q:\n%s", want, data)
		}
	}
}

// TestRunWithDebugOutput checks that previews and the effective config are saved.
func TestRunWithDebugOutput(t *testing.T) {
	buildBinary(t)

	dir := t.TempDir()
	debugDir := filepath.Join(dir, "debug")

	_, stderr, err := run(t,
		"run",
		"--frames", "3",
		"--pattern-size", "64x64",
		"--output", "discard",
		"--debug",
		"--debug-dir", debugDir,
		"--quiet",
	)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(debugDir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
	previews, err := os.ReadDir(filepath.Join(debugDir, "preview"))
	if err != nil {
		t.Fatalf("read preview dir: %v", err)
	}
	if len(previews) != 3 {
		t.Errorf("expected 3 previews, got %d", len(previews))
	}
}

// TestRunRejectsInvalidConfig checks that validation errors exit non-zero.
func TestRunRejectsInvalidConfig(t *testing.T) {
	buildBinary(t)

	_, stderr, err := run(t, "run", "--input-capacity", "0", "--output", "discard", "--quiet")
	if err == nil {
		t.Fatal("expected non-zero exit")
	}
	if !strings.Contains(stderr, "input_capacity") {
		t.Errorf("expected validation message, got: %s", stderr)
	}
}

// TestVersionCommand tests the version output.
func TestVersionCommand(t *testing.T) {
	buildBinary(t)

	// urfave/cli provides a --version flag alongside the version subcommand
	for _, args := range [][]string{{"--version"}, {"version"}} {
		out, _, err := run(t, args...)
		if err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		if !strings.Contains(out, "framepipe") {
			t.Errorf("unexpected version output for %v: %s", args, out)
		}
	}
}

// getProjectRoot returns the project root directory
func getProjectRoot(t *testing.T) string {
	// Start from current working directory and find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
