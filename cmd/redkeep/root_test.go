package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"redkeep-hq/redkeep/pkg/cli"
	"redkeep-hq/redkeep/pkg/config"
	"redkeep-hq/redkeep/pkg/config/manager"
	"redkeep-hq/redkeep/pkg/validation"
)

// setConfig points the persistent --config flag at a fixture for the
// duration of one test.
func setConfig(t *testing.T, path string) {
	t.Helper()
	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })
}

// writeConfig writes a fixture document into a temp directory.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// currentYAML builds a minimal document at the current schema version.
func currentYAML(port int) string {
	return fmt.Sprintf("metadata:\n  schemaVersion: %q\nredis:\n  port: %d\n", config.CurrentSchemaVersion, port)
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// what it printed.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = orig
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data), runErr
}

func TestRootCommandRegistration(t *testing.T) {
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range []string{"validate", "show", "migrate", "watch", "init", "history", "version", "completion"} {
		if !registered[name] {
			t.Errorf("expected command %q to be registered, got %v", name, registered)
		}
	}
}

func TestRejectionErrorValidationFailure(t *testing.T) {
	report := validation.Report{}
	report.Add(validation.Finding{
		PropertyPath: "redis.port",
		Message:      "port out of range",
		Severity:     validation.SeverityError,
	})

	err := rejectionError("show", &manager.ValidationFailedError{Path: "config.yaml", Report: report})

	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cli.ExitCode(err) != cli.ExitInvalid {
		t.Errorf("expected exit code %d, got %d", cli.ExitInvalid, cli.ExitCode(err))
	}
}

func TestRejectionErrorSystemCheckFailure(t *testing.T) {
	report := validation.Report{}
	report.Add(validation.Finding{
		PropertyPath: "redis.port",
		Message:      "cannot bind",
		Severity:     validation.SeverityError,
	})

	err := rejectionError("watch", &manager.SystemCheckError{Path: "config.yaml", Report: report})

	if cli.ExitCode(err) != cli.ExitInvalid {
		t.Errorf("expected exit code %d, got %d", cli.ExitInvalid, cli.ExitCode(err))
	}
}

func TestRejectionErrorOperationalFailure(t *testing.T) {
	err := rejectionError("show", errors.New("disk on fire"))

	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) {
		t.Fatalf("expected CommandError, got %T", err)
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("expected exit code %d, got %d", cli.ExitFailure, cli.ExitCode(err))
	}
}
