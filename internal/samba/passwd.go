package samba

import (
	"context"
	"fmt"

	"github.com/softicar/samba-server-scripts/internal/system"
)

// UserRegistered reports whether a user is already present in the Samba
// password store, by pdbedit exit status.
func UserRegistered(ctx context.Context, runner system.Runner, user string) bool {
	return runner.Run(ctx, "sudo", "pdbedit", "-u", user) == nil
}

// RegisterUser adds a user to the Samba password store with the given
// password. smbpasswd reads the password twice from stdin in -s mode.
func RegisterUser(ctx context.Context, runner system.Runner, user, password string) error {
	input := password + "\n" + password + "\n"
	if err := runner.RunWithInput(ctx, input, "sudo", "smbpasswd", "-a", "-s", user); err != nil {
		return fmt.Errorf("failed to register %s with the Samba password store: %w", user, err)
	}
	return nil
}
