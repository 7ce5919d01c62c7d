// Package main tests document the expected behavior of the watchlens CLI.
//
// These are BLACK BOX tests - they test the CLI by executing the binary
// and checking stdout/stderr output.
//
// External dependencies isolated:
// - Config, history, categories and database files via WATCHLENS_CONFIG_DIR
// - Interactive answers via stdin
//
// Test requirements (this file serves as documentation):
// - CLI has root command with version info
// - "parse" converts a Takeout export, skipping malformed entries
// - "words", "report" and "features" read the saved history
// - "categorize" saves every answer immediately and "status" shows it
// - Error messages are helpful
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binaryPath string

// TestMain builds the binary once before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "watchlens-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "watchlens")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	if err := cmd.Run(); err != nil {
		_ = os.RemoveAll(dir)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// runCLI executes the CLI binary with given arguments, environment and stdin.
func runCLI(t *testing.T, env map[string]string, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)

	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdin = strings.NewReader(stdin)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// runCLISimple runs CLI without custom environment.
func runCLISimple(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	return runCLI(t, nil, "", args...)
}

// cell renders one watched-video entry of a Takeout export.
func cell(title, link, channel, timestamp string) string {
	return fmt.Sprintf(`<div class="outer-cell mdl-cell mdl-cell--12-col mdl-shadow--2dp"><div class="mdl-grid">
<div class="content-cell mdl-cell mdl-cell--6-col mdl-typography--body-1">Watched&nbsp;<a href="%s">%s</a><br><a href="https://www.youtube.com/channel/UC%s">%s</a><br>%s<br></div>
</div></div>
`, link, title, channel, channel, timestamp)
}

// writeExport writes a small export: four valid videos and one malformed entry.
func writeExport(t *testing.T, dir string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body><div class="mdl-grid">`)
	b.WriteString(cell("Pasta carbonara recipe", "https://www.youtube.com/watch?v=p2", "Kitchen", "Jan 6, 2024, 8:10:00 PM GMT+01:00"))
	b.WriteString(cell("Pasta recipe", "https://www.youtube.com/watch?v=p1", "Kitchen", "Jan 6, 2024, 7:55:00 PM GMT+01:00"))
	b.WriteString(cell("Broken entry", "https://www.youtube.com/watch?v=x", "Nobody", "not a date"))
	b.WriteString(cell("Minecraft building", "https://www.youtube.com/watch?v=m2", "Blocks", "Jan 5, 2024, 10:20:00 AM GMT+01:00"))
	b.WriteString(cell("Minecraft speedrun", "https://www.youtube.com/watch?v=m1", "Blocks", "Jan 5, 2024, 10:00:00 AM GMT+01:00"))
	b.WriteString(`</div></body></html>`)

	path := filepath.Join(dir, "watch-history.html")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// parsedEnv returns an isolated environment with the export already parsed.
func parsedEnv(t *testing.T) map[string]string {
	t.Helper()

	dir := t.TempDir()
	env := map[string]string{"WATCHLENS_CONFIG_DIR": dir, "WATCHLENS_CONFIG": filepath.Join(dir, "config.yaml")}
	_, stderr, exitCode := runCLI(t, env, "", "parse", writeExport(t, dir))
	if exitCode != 0 {
		t.Fatalf("parse should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	return env
}

// TestRootCommand_Help verifies help output shows available commands.
func TestRootCommand_Help(t *testing.T) {
	stdout, _, _ := runCLISimple(t, "--help")
	output := strings.ToLower(stdout)

	expects := []string{"watchlens", "usage", "parse", "report", "words", "categorize", "status"}
	for _, want := range expects {
		if !strings.Contains(output, want) {
			t.Errorf("help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestRootCommand_Version verifies version output.
func TestRootCommand_Version(t *testing.T) {
	stdout, _, _ := runCLISimple(t, "--version")

	if !strings.HasPrefix(stdout, "watchlens version ") {
		t.Errorf("version should show watchlens and version, got:\n%s", stdout)
	}
}

// TestParseCommand_RequiresExport verifies parse needs an export argument.
func TestParseCommand_RequiresExport(t *testing.T) {
	_, stderr, exitCode := runCLI(t, map[string]string{"WATCHLENS_CONFIG_DIR": t.TempDir()}, "", "parse")

	if exitCode == 0 {
		t.Error("should fail without export argument")
	}
	if !strings.Contains(stderr, "arg") {
		t.Errorf("error should mention the missing argument, got:\n%s", stderr)
	}
}

// TestParseCommand_SkipsMalformedEntries verifies parse keeps valid videos and reports skips.
func TestParseCommand_SkipsMalformedEntries(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "history.json")
	env := map[string]string{"WATCHLENS_CONFIG_DIR": dir}

	stdout, stderr, exitCode := runCLI(t, env, "", "parse", writeExport(t, dir), "--output", out)

	if exitCode != 0 {
		t.Fatalf("parse should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Parsed 4 videos (1 entries skipped)") {
		t.Errorf("user should see parsed and skipped counts, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "not a date") {
		t.Errorf("skipped entry should be logged, got:\n%s", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("snapshot should be written: %v", err)
	}
	var events []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 4 || events[0].Title != "Pasta carbonara recipe" {
		t.Errorf("snapshot should hold 4 events most recent first, got %+v", events)
	}
}

// TestWordsCommand_ListsFrequentWords verifies words applies the threshold.
func TestWordsCommand_ListsFrequentWords(t *testing.T) {
	env := parsedEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "", "words", "--min", "2")

	if exitCode != 0 {
		t.Fatalf("words should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"3 words appear at least 2 times", "minecraft", "pasta", "recipe"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("words output should contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "speedrun") {
		t.Errorf("words below the threshold should be hidden, got:\n%s", stdout)
	}
}

// TestReportCommand_ShowsStatistics verifies report prints the overview and charts.
func TestReportCommand_ShowsStatistics(t *testing.T) {
	env := parsedEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "", "report")

	if exitCode != 0 {
		t.Fatalf("report should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	for _, want := range []string{"Total videos watched: 4", "Total sessions: 2", "Sessions by duration", "Top channels", "Kitchen"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("report should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestReportCommand_DateRange verifies --since and --until restrict the history.
func TestReportCommand_DateRange(t *testing.T) {
	env := parsedEnv(t)

	stdout, _, exitCode := runCLI(t, env, "", "report", "--since", "2024-01-05", "--until", "2024-01-05")
	if exitCode != 0 {
		t.Fatalf("report should succeed with a date range")
	}
	if !strings.Contains(stdout, "Total videos watched: 2") {
		t.Errorf("report should only count videos of the range, got:\n%s", stdout)
	}

	_, stderr, exitCode := runCLI(t, env, "", "report", "--since", "05/01/2024")
	if exitCode == 0 || !strings.Contains(stderr, "YYYY-MM-DD") {
		t.Errorf("invalid date should fail with a format hint, got exit %d:\n%s", exitCode, stderr)
	}
}

// TestFeaturesCommand_WritesDatabase verifies features stores the table in SQLite.
func TestFeaturesCommand_WritesDatabase(t *testing.T) {
	env := parsedEnv(t)
	db := filepath.Join(env["WATCHLENS_CONFIG_DIR"], "features.db")

	stdout, stderr, exitCode := runCLI(t, env, "", "features", "--db", db)

	if exitCode != 0 {
		t.Fatalf("features should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Saved 4 videos in 2 sessions") {
		t.Errorf("user should see table size, got:\n%s", stdout)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database should exist: %v", err)
	}

	stdout, _, exitCode = runCLI(t, env, "", "report", "--input", db)
	if exitCode != 0 || !strings.Contains(stdout, "Total videos watched: 4") {
		t.Errorf("report should read the stored database, got exit %d:\n%s", exitCode, stdout)
	}
}

// TestCategorizeCommand_SavesAnswers verifies answers persist and show up in status.
func TestCategorizeCommand_SavesAnswers(t *testing.T) {
	env := parsedEnv(t)

	stdout, stderr, exitCode := runCLI(t, env, "1\nquit\n", "categorize", "--min", "2")
	if exitCode != 0 {
		t.Fatalf("categorize should succeed, got exit code %d:\n%s", exitCode, stderr)
	}
	if !strings.Contains(stdout, "Word: 'minecraft' (appears 2 times)") {
		t.Errorf("user should be asked about the most frequent word first, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Added 'minecraft' to category 'Entertainment'") {
		t.Errorf("user should see the assignment confirmed, got:\n%s", stdout)
	}

	data, err := os.ReadFile(filepath.Join(env["WATCHLENS_CONFIG_DIR"], "word_categories.json"))
	if err != nil {
		t.Fatalf("categories file should be written: %v", err)
	}
	if !strings.Contains(string(data), `"minecraft": "Entertainment"`) {
		t.Errorf("categories file should hold the answer, got:\n%s", data)
	}

	stdout, _, _ = runCLI(t, env, "", "status", "--min", "2")
	if !strings.Contains(stdout, "Entertainment (1 word)") || !strings.Contains(stdout, "minecraft (2)") {
		t.Errorf("status should show the saved category, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "remaining: 2") {
		t.Errorf("status should count remaining words, got:\n%s", stdout)
	}
}

// TestCommands_MissingHistory verifies a helpful error before parse has run.
func TestCommands_MissingHistory(t *testing.T) {
	env := map[string]string{"WATCHLENS_CONFIG_DIR": t.TempDir()}

	_, stderr, exitCode := runCLI(t, env, "", "words")

	if exitCode == 0 {
		t.Error("words should fail without history")
	}
	if !strings.Contains(stderr, "watchlens parse") {
		t.Errorf("error should tell the user to run parse, got:\n%s", stderr)
	}
}

// TestCommands_MissingDatabaseInput verifies a mistyped database input fails without creating a file.
func TestCommands_MissingDatabaseInput(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"WATCHLENS_CONFIG_DIR": dir}
	missing := filepath.Join(dir, "missing.db")

	_, stderr, exitCode := runCLI(t, env, "", "words", "--input", missing)

	if exitCode == 0 {
		t.Error("words should fail when the database input does not exist")
	}
	if !strings.Contains(stderr, "watchlens features") {
		t.Errorf("error should tell the user to run features, got:\n%s", stderr)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("no database file should be created, stat returned: %v", err)
	}
}

// TestConfigCommand_ShowsPaths verifies config prints resolved settings.
func TestConfigCommand_ShowsPaths(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"WATCHLENS_CONFIG_DIR": dir, "WATCHLENS_CONFIG": filepath.Join(dir, "config.yaml")}

	stdout, _, exitCode := runCLI(t, env, "", "config")

	if exitCode != 0 {
		t.Fatalf("config should succeed, got exit code %d", exitCode)
	}
	for _, want := range []string{dir, "Session gap: 30m0s", "Minimum word frequency: 75", "tutorial:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config should contain %q, got:\n%s", want, stdout)
		}
	}
}
