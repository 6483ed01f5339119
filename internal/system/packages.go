package system

import (
	"context"
	"fmt"
)

// PackageInstalled reports whether a Debian package is installed.
//
// Detection is by dpkg exit status only; any failure (including dpkg
// being absent) is treated as "not installed".
func PackageInstalled(ctx context.Context, runner Runner, name string) bool {
	return runner.Run(ctx, "dpkg", "-s", name) == nil
}

// InstallPackage installs a package with apt-get, non-interactively.
func InstallPackage(ctx context.Context, runner Runner, name string) error {
	if err := runner.Run(ctx, "sudo", "apt-get", "install", "-y", name); err != nil {
		return fmt.Errorf("failed to install package %s: %w", name, err)
	}
	return nil
}
