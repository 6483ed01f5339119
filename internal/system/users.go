package system

import (
	"context"
	"fmt"
	"os"
)

// RunningAsRoot reports whether the current process runs with euid 0.
// The flows refuse to run as root; privileged commands go through sudo.
func RunningAsRoot() bool {
	return os.Geteuid() == 0
}

// UserExists reports whether a local system user exists, by getent exit
// status.
func UserExists(ctx context.Context, runner Runner, name string) bool {
	return runner.Run(ctx, "getent", "passwd", name) == nil
}

// CreateSystemUser creates a login-disabled system user with no home
// directory and a matching primary group.
func CreateSystemUser(ctx context.Context, runner Runner, name string) error {
	err := runner.Run(ctx, "sudo", "useradd",
		"--system",
		"--shell", "/usr/sbin/nologin",
		"--no-create-home",
		"--user-group",
		name)
	if err != nil {
		return fmt.Errorf("failed to create system user %s: %w", name, err)
	}
	return nil
}

// Chown sets owner and group of a path.
func Chown(ctx context.Context, runner Runner, owner, group, path string) error {
	if err := runner.Run(ctx, "sudo", "chown", owner+":"+group, path); err != nil {
		return fmt.Errorf("failed to change ownership of %s: %w", path, err)
	}
	return nil
}
