// Package provision implements the two administrative flows: the
// single-instance host setup and the multi-instance add-share flow.
//
// Both flows are strictly sequential. Every step checks its
// precondition, asks the operator when state already exists, and treats
// any external command failure as fatal. Nothing is rolled back:
// resources created before a failing step stay in place.
package provision

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/prompt"
	"github.com/softicar/samba-server-scripts/internal/registry"
	"github.com/softicar/samba-server-scripts/internal/system"
	"github.com/softicar/samba-server-scripts/pkg/config"
)

// ErrAborted is returned when the operator declines a confirmation.
var ErrAborted = errors.New("aborted by operator")

// Provisioner runs the provisioning flows.
//
// All host access goes through the injected filesystem (reads and
// existence checks) and Runner (every mutation), so flows can be
// exercised completely in tests.
type Provisioner struct {
	cfg      *config.Config
	fs       afero.Fs
	runner   system.Runner
	prompter *prompt.Prompter
	registry registry.Registry
	out      io.Writer

	// now is swappable so tests get deterministic backup suffixes.
	now func() time.Time
}

func New(cfg *config.Config, fs afero.Fs, runner system.Runner, prompter *prompt.Prompter, reg registry.Registry, out io.Writer) *Provisioner {
	return &Provisioner{
		cfg:      cfg,
		fs:       fs,
		runner:   runner,
		prompter: prompter,
		registry: reg,
		out:      out,
		now:      time.Now,
	}
}

// confirmOrAbort asks and maps a declined answer to ErrAborted.
func (p *Provisioner) confirmOrAbort(question string, defaultYes bool) error {
	ok, err := p.prompter.Confirm(question, defaultYes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// printCredentials echoes the created account once, clearly delimited.
// The password is shown exactly here and nowhere else.
func (p *Provisioner) printCredentials(user, password, passwordFile string) {
	const rule = "============================================================"

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, rule)
	fmt.Fprintf(p.out, "Samba user: %s\n", user)
	if password == "" {
		fmt.Fprintln(p.out, "Password:   (unchanged)")
	} else {
		fmt.Fprintf(p.out, "Password:   %s\n", password)
		if passwordFile != "" {
			fmt.Fprintf(p.out, "Saved to:   %s\n", passwordFile)
		}
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Store these credentials now. The password is not shown again.")
	}
	fmt.Fprintln(p.out, rule)
}
