package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	reportDir  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		reportDir:  filepath.Join(base, "reports"),
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
report_dir = %q
log_dir = %q
database_path = %q

[scan]
workers = 1
chunk_size_kib = 64

[logging]
format = "json"
level = "error"
`,
		env.reportDir,
		filepath.Join(env.baseDir, "logs"),
		filepath.Join(env.baseDir, "sessions.db"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func mustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCLIScanHistoryReportReview(t *testing.T) {
	env := setupCLITestEnv(t)

	root := filepath.Join(env.baseDir, "media")
	mustWriteFile(t, filepath.Join(root, "MOVIES", "Heat.1995.1080p.mkv"), []byte("identical payload"))
	mustWriteFile(t, filepath.Join(root, "MOVIES", "Heat.backup.mkv"), []byte("identical payload"))
	mustWriteFile(t, filepath.Join(root, "MOVIES", "Alien.1979.mkv"), []byte("something else"))

	out, _, err := runCLI(t, env.configPath, "scan", root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Scan completed")
	requireContains(t, out, "Files scanned: 3")
	requireContains(t, out, "Duplicate groups: 1")
	requireContains(t, out, "Heat.1995.1080p.mkv")

	reports, err := filepath.Glob(filepath.Join(env.reportDir, "duplicate_report_*.json"))
	if err != nil || len(reports) != 1 {
		t.Fatalf("expected 1 JSON report, got %v (%v)", reports, err)
	}
	summaries, err := filepath.Glob(filepath.Join(env.reportDir, "summary_*.txt"))
	if err != nil || len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %v (%v)", summaries, err)
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, env.configPath, "report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "MEDIA DUPLICATE SCAN SUMMARY")
	requireContains(t, out, "Duplicate groups found: 1")

	out, _, err = runCLI(t, env.configPath, "review")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	requireContains(t, out, "Keep")
	requireContains(t, out, "Heat")

	out, _, err = runCLI(t, env.configPath, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 session(s)")

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history after clear: %v", err)
	}
	requireContains(t, out, "No scan sessions recorded yet")
}

func TestCLIScanJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	root := filepath.Join(env.baseDir, "media")
	mustWriteFile(t, filepath.Join(root, "a.mp4"), []byte("pair"))
	mustWriteFile(t, filepath.Join(root, "b.mp4"), []byte("pair"))

	out, _, err := runCLI(t, env.configPath, "scan", "--json", "--no-report", root)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	requireContains(t, out, `"status": "completed"`)
	requireContains(t, out, `"duplicate_groups"`)
}

func TestCLIScanMissingRootFails(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "nope")
	_, _, err := runCLI(t, env.configPath, "scan", "--no-save", "--no-report", missing)
	if err == nil {
		t.Fatal("expected failure when no root is accessible")
	}
}

func TestCLIReportWithoutHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "report")
	if err == nil || !strings.Contains(err.Error(), "no scan sessions") {
		t.Fatalf("expected empty-history error, got %v", err)
	}
}
