// Package main provides tests for the milgrid CLI.
package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/leapstack-labs/milgrid/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "milgrid v") {
		t.Errorf("version output should contain 'milgrid v', got: %s", output)
	}
	if !strings.Contains(output, "Personnel Military Data Viewer") {
		t.Errorf("version output should name the product, got: %s", output)
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("--version error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "milgrid") {
		t.Errorf("--version output should contain 'milgrid', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"serve", "show", "repl", "tui", "check", "init", "version"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestShowStatusesCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"show", "statuses"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("show statuses command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "مؤجل") {
		t.Errorf("statuses output should list the known categories, got: %s", output)
	}
	if !strings.Contains(output, "__NONE__") {
		t.Errorf("statuses output should include the blank bucket, got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			err := cmd.Execute()
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

// runInDir executes a fresh root command in dir and returns its combined output.
func runInDir(t *testing.T, dir string, args ...string) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v error = %v\noutput: %s", args, err, buf.String())
	}
	return buf.String()
}

// TestDemoProjectEndToEnd scaffolds a demo project and reads the report back
// through the real config, adapter, loader, and render pipeline.
func TestDemoProjectEndToEnd(t *testing.T) {
	dir := t.TempDir()

	runInDir(t, dir, "init", "--demo")
	for _, f := range []string{"milgrid.yaml", "milgrid.db"} {
		if _, err := os.Stat(dir + "/" + f); err != nil {
			t.Fatalf("init --demo should create %s: %v", f, err)
		}
	}

	csv := runInDir(t, dir, "show", "--format", "csv")
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 25 {
		t.Errorf("show csv should print a header and 24 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Person_Instance_ID,") {
		t.Errorf("csv header should start with Person_Instance_ID, got: %s", lines[0])
	}
	if !strings.Contains(csv, "Ahmed Hassan") {
		t.Errorf("csv should contain demo rows, got: %s", csv)
	}

	filtered := runInDir(t, dir, "show", "--employee", "10017", "--format", "csv")
	if !strings.Contains(filtered, "Omar Farouk") {
		t.Errorf("employee filter should keep the matching row, got: %s", filtered)
	}
	if strings.Contains(filtered, "Ahmed Hassan") {
		t.Errorf("employee filter should drop other rows, got: %s", filtered)
	}

	noStatus := runInDir(t, dir, "show", "--status", "__NONE__", "--format", "csv")
	if got := len(strings.Split(strings.TrimRight(noStatus, "\n"), "\n")); got != 4 {
		t.Errorf("__NONE__ should keep the header and the 3 rows without a status, got %d lines", got)
	}

	check := runInDir(t, dir, "check", "--format", "json")
	if !strings.Contains(check, `"failed": 0`) {
		t.Errorf("check on a healthy demo project should report no failures, got: %s", check)
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
