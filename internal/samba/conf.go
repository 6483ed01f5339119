package samba

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/system"
)

// RenameAside moves an existing configuration file out of the way,
// suffixing it with a timestamp. Returns the backup path, or "" when the
// file did not exist.
//
// Note that this drops any previously configured shares from the active
// configuration; the single-instance flow warns the operator before
// calling it.
func RenameAside(ctx context.Context, fs afero.Fs, runner system.Runner, path string, now time.Time) (string, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		return "", nil
	}

	backup := fmt.Sprintf("%s.%s.bak", path, now.Format("20060102-150405"))
	if err := system.Rename(ctx, runner, path, backup); err != nil {
		return "", fmt.Errorf("failed to move %s aside: %w", path, err)
	}
	return backup, nil
}
