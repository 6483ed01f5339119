// Package system wraps the external commands the provisioning flows
// invoke: package manager, user management utilities, privileged file
// operations, and service control.
//
// Every mutation of system state goes through a Runner so that flows can
// be exercised in tests without touching the host. The invoking user is
// expected to be non-root; privileged commands are prefixed with sudo.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command and waits for it. A non-zero exit status is
	// returned as an error carrying the command's combined output.
	Run(ctx context.Context, name string, args ...string) error

	// RunWithInput is Run with the given string fed to stdin.
	RunWithInput(ctx context.Context, input string, name string, args ...string) error

	// Output executes a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner is the Runner used in production, backed by os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapCommandError(err, output, name, args)
	}
	return nil
}

func (r *ExecRunner) RunWithInput(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapCommandError(err, output, name, args)
	}
	return nil
}

func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.Output()
	if err != nil {
		return "", wrapCommandError(err, nil, name, args)
	}
	return string(output), nil
}

func wrapCommandError(err error, output []byte, name string, args []string) error {
	command := strings.Join(append([]string{name}, args...), " ")
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return fmt.Errorf("command %q failed: %w", command, err)
	}
	return fmt.Errorf("command %q failed: %w: %s", command, err, trimmed)
}
