package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/parsort/internal/testutil"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment isolates config lookup and runtime resources.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PARSORT_RUNTIME_DIR", t.TempDir())
	t.Chdir(t.TempDir())

	return testutil.DatasetFile(t, []int{5, 3, 8, 1, 9, 2, 7, 4})
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "parsort" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "parsort")
	}

	expectedCmds := []string{"run", "plan", "config"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestRunCommand(t *testing.T) {
	path := setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "run", path, "--levels", "2", "--workers", "2", "--delay", "0s", "--interval", "1ms")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}

	for _, want := range []string{"Starting algorithm with 2 levels and 2 workers...", "Algorithm completed", "Sorted 8 elements", "worker 0:", "worker 1:"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "Starting algorithm") > strings.Index(output, "Algorithm completed") {
		t.Error("completion banner printed before the start banner")
	}
}

func TestRunCommand_ClampsLevels(t *testing.T) {
	path := setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "run", path, "--levels", "11", "--workers", "1", "--delay", "0s", "--interval", "1ms")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "warning: sort.levels 11 exceeds 10") {
		t.Errorf("output missing clamp warning:\n%s", output)
	}
	if !strings.Contains(output, "Starting algorithm with 10 levels") {
		t.Errorf("run did not use the clamped level count:\n%s", output)
	}
}

func TestRunCommand_InvalidWorkers(t *testing.T) {
	path := setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, "run", path, "--levels", "1", "--workers", "0")
	if err == nil || !strings.Contains(err.Error(), "sort.workers") {
		t.Errorf("run error = %v, want a sort.workers validation error", err)
	}
}

func TestRunCommand_MissingFile(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, "run", filepath.Join(t.TempDir(), "none.txt"), "--levels", "1", "--workers", "1", "--delay", "0s")
	if err == nil || !strings.Contains(err.Error(), "setup error") {
		t.Errorf("run error = %v, want a setup error", err)
	}
}

func TestPlanCommand(t *testing.T) {
	path := setupTestEnvironment(t)

	output, err := executeCommand(rootCmd, "plan", path, "--levels", "2")
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	var doc planOutput
	if err := yaml.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("plan output is not YAML: %v\n%s", err, output)
	}
	if doc.Elements != 8 || doc.Levels != 2 {
		t.Errorf("plan = %d elements, %d levels; want 8 and 2", doc.Elements, doc.Levels)
	}
	if len(doc.Tasks) != 2 || len(doc.Tasks[0]) != 2 || len(doc.Tasks[1]) != 1 {
		t.Fatalf("plan tasks = %+v, want 2 leaves and 1 root", doc.Tasks)
	}
	if root := doc.Tasks[1][0]; root.Start != 0 || root.Mid != 4 || root.End != 8 {
		t.Errorf("root task = %+v, want [0,4,8)", root)
	}
}

func TestPlanCommand_ClampsLevels(t *testing.T) {
	path := setupTestEnvironment(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"plan", path, "--levels", "12"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan failed: %v\n%s", err, stderr.String())
	}

	if !strings.Contains(stderr.String(), "warning: sort.levels 12 exceeds 10") {
		t.Errorf("stderr missing clamp warning:\n%s", stderr.String())
	}
	var doc planOutput
	if err := yaml.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("plan output is not YAML: %v", err)
	}
	if doc.Levels != 10 || len(doc.Tasks) != 10 {
		t.Errorf("plan levels = %d with %d rows, want 10", doc.Levels, len(doc.Tasks))
	}
}

func TestPlanCommand_RejectsZeroLevels(t *testing.T) {
	path := setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, "plan", path, "--levels", "0")
	if err == nil || !strings.Contains(err.Error(), "sort.levels") {
		t.Errorf("plan error = %v, want a sort.levels validation error", err)
	}
}

func TestConfigCommand(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("PARSORT_RUNTIME_NAME", "custom")

	output, err := executeCommand(rootCmd, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"name: custom", "queue_capacity: 10", "interval:"} {
		if !strings.Contains(output, want) {
			t.Errorf("config output missing %q:\n%s", want, output)
		}
	}
}
