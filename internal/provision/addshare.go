package provision

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/logger"
	"github.com/softicar/samba-server-scripts/internal/password"
	"github.com/softicar/samba-server-scripts/internal/registry"
	"github.com/softicar/samba-server-scripts/internal/samba"
	"github.com/softicar/samba-server-scripts/internal/system"
)

// instancePaths holds every artifact location derived from an
// identifier.
type instancePaths struct {
	shareDir     string
	fragment     string
	passwordFile string
}

func (p *Provisioner) pathsFor(identifier string) instancePaths {
	return instancePaths{
		shareDir:     filepath.Join(p.cfg.Samba.InstanceRoot, identifier),
		fragment:     filepath.Join(p.cfg.Samba.FragmentsDir, identifier+".conf"),
		passwordFile: filepath.Join(p.cfg.Samba.PasswordDir, identifier),
	}
}

// AddShare runs the multi-instance add-share flow.
//
// One additional, isolated share is provisioned for an interactively
// named instance. The flow aborts before creating anything when any
// artifact for that instance already exists; there is no
// partial-overwrite path.
func (p *Provisioner) AddShare(ctx context.Context) error {
	fmt.Fprintln(p.out, "This adds an isolated Samba share for a new instance.")

	name, err := p.prompter.InputValidated("Instance name", func(input string) error {
		return ValidateInstanceName(input, p.cfg.Samba.InstancePrefix)
	})
	if err != nil {
		return err
	}

	identifier := DeriveIdentifier(p.cfg.Samba.InstancePrefix, name)
	paths := p.pathsFor(identifier)

	if err := p.checkInstanceAbsent(ctx, identifier, paths); err != nil {
		return err
	}

	logger.Info("Provisioning instance %s", identifier)

	if err := system.CreateSystemUser(ctx, p.runner, identifier); err != nil {
		return err
	}
	if err := system.MakeDirectory(ctx, p.runner, paths.shareDir, "0755"); err != nil {
		return err
	}
	if err := system.Chown(ctx, p.runner, identifier, identifier, paths.shareDir); err != nil {
		return err
	}

	generated, err := password.Generate()
	if err != nil {
		return err
	}
	if err := samba.RegisterUser(ctx, p.runner, identifier, generated); err != nil {
		return err
	}
	if err := p.persistPassword(ctx, paths.passwordFile, generated); err != nil {
		return err
	}

	if err := p.writeFragment(ctx, identifier, paths); err != nil {
		return err
	}
	if err := samba.RegenerateIncludes(ctx, p.fs, p.runner, p.cfg.Samba.FragmentsDir, p.cfg.Samba.IncludesFile); err != nil {
		return err
	}
	if err := samba.EnsureIncluded(ctx, p.fs, p.runner, p.cfg.Samba.ConfPath, p.cfg.Samba.IncludesFile); err != nil {
		return err
	}

	if err := p.registry.Put(ctx, registry.Record{
		Identifier:   identifier,
		Name:         name,
		SharePath:    paths.shareDir,
		FragmentPath: paths.fragment,
		CreatedAt:    p.now(),
	}); err != nil {
		return err
	}

	restart, err := p.prompter.Confirm(
		fmt.Sprintf("Restart the %s service now?", p.cfg.Samba.Service), true)
	if err != nil {
		return err
	}
	if restart {
		if err := system.RestartService(ctx, p.runner, p.cfg.Samba.Service); err != nil {
			return err
		}
	} else {
		logger.Warn("Service not restarted; the share %s is defined but not active yet", identifier)
	}

	p.printCredentials(identifier, generated, paths.passwordFile)
	return nil
}

// checkInstanceAbsent verifies that no artifact of the instance exists
// yet. Any hit aborts the whole flow before a single change is made.
func (p *Provisioner) checkInstanceAbsent(ctx context.Context, identifier string, paths instancePaths) error {
	var existing []string

	if exists, err := afero.Exists(p.fs, paths.passwordFile); err != nil {
		return fmt.Errorf("failed to check %s: %w", paths.passwordFile, err)
	} else if exists {
		existing = append(existing, "password file "+paths.passwordFile)
	}

	if system.UserExists(ctx, p.runner, identifier) {
		existing = append(existing, "system user "+identifier)
	}

	if exists, err := afero.DirExists(p.fs, paths.shareDir); err != nil {
		return fmt.Errorf("failed to check %s: %w", paths.shareDir, err)
	} else if exists {
		existing = append(existing, "share directory "+paths.shareDir)
	}

	if exists, err := afero.Exists(p.fs, paths.fragment); err != nil {
		return fmt.Errorf("failed to check %s: %w", paths.fragment, err)
	} else if exists {
		existing = append(existing, "config fragment "+paths.fragment)
	}

	if len(existing) > 0 {
		return fmt.Errorf("instance %s already has: %s", identifier, strings.Join(existing, ", "))
	}
	return nil
}

// persistPassword writes the generated password to the per-instance
// file under the private password directory.
func (p *Provisioner) persistPassword(ctx context.Context, passwordFile, generated string) error {
	if err := system.MakeDirectory(ctx, p.runner, p.cfg.Samba.PasswordDir, "0700"); err != nil {
		return err
	}
	if err := system.WriteFile(ctx, p.runner, passwordFile, generated+"\n", "0600"); err != nil {
		return fmt.Errorf("failed to persist password: %w", err)
	}
	return nil
}

// writeFragment renders and writes the per-instance config fragment.
func (p *Provisioner) writeFragment(ctx context.Context, identifier string, paths instancePaths) error {
	if err := system.MakeDirectory(ctx, p.runner, p.cfg.Samba.FragmentsDir, "0755"); err != nil {
		return err
	}

	stanza, err := samba.ShareDefinition{
		Name:      identifier,
		Path:      paths.shareDir,
		ValidUser: identifier,
	}.Render()
	if err != nil {
		return err
	}

	logger.Info("Writing config fragment %s", paths.fragment)
	return system.WriteFile(ctx, p.runner, paths.fragment, stanza, "0644")
}

// ListInstances prints every registry record, one line per instance.
func (p *Provisioner) ListInstances(ctx context.Context, w io.Writer) error {
	records, err := p.registry.List(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No instances provisioned yet.")
		return nil
	}

	for _, record := range records {
		line := fmt.Sprintf("%s\t%s", record.Identifier, record.SharePath)
		if !record.CreatedAt.IsZero() {
			line += "\t" + record.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
