package system

import (
	"context"
	"fmt"
)

// EnableService enables a systemd unit at boot.
func EnableService(ctx context.Context, runner Runner, name string) error {
	if err := runner.Run(ctx, "sudo", "systemctl", "enable", name); err != nil {
		return fmt.Errorf("failed to enable service %s: %w", name, err)
	}
	return nil
}

// RestartService restarts a systemd unit. Success is judged by exit
// status only; no readiness probing is attempted.
func RestartService(ctx context.Context, runner Runner, name string) error {
	if err := runner.Run(ctx, "sudo", "systemctl", "restart", name); err != nil {
		return fmt.Errorf("failed to restart service %s: %w", name, err)
	}
	return nil
}
