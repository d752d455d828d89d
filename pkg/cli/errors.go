package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the redkeep command. Scripts can tell a
// rejected configuration apart from an operational failure.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// ConfigError reports a configuration document the engine refused to
// accept. It carries ExitInvalid so scripted callers can distinguish a
// bad document from a crashed command.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Path, e.Message)
}

// ExitCode returns the exit status for a rejected configuration.
func (e *ConfigError) ExitCode() int {
	return ExitInvalid
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(path, message string) *ConfigError {
	return &ConfigError{
		Path:    path,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error to the process exit status. A nil error is
// ExitOK, errors carrying their own code are honored, and anything else
// is ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitFailure
}
