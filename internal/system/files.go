package system

import (
	"context"
	"fmt"
)

// MakeDirectory creates a directory (and parents) with the given mode.
func MakeDirectory(ctx context.Context, runner Runner, path, mode string) error {
	if err := runner.Run(ctx, "sudo", "install", "-d", "-m", mode, path); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// Rename moves a file, clobbering any existing target.
func Rename(ctx context.Context, runner Runner, from, to string) error {
	if err := runner.Run(ctx, "sudo", "mv", from, to); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", from, to, err)
	}
	return nil
}

// WriteFile replaces the contents of a privileged file and sets its mode.
// Content is piped through sudo tee so the invoking user stays non-root.
func WriteFile(ctx context.Context, runner Runner, path, content, mode string) error {
	if err := runner.RunWithInput(ctx, content, "sudo", "tee", path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := runner.Run(ctx, "sudo", "chmod", mode, path); err != nil {
		return fmt.Errorf("failed to set mode of %s: %w", path, err)
	}
	return nil
}

// AppendToFile appends content to a privileged file.
func AppendToFile(ctx context.Context, runner Runner, path, content string) error {
	if err := runner.RunWithInput(ctx, content, "sudo", "tee", "-a", path); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}
