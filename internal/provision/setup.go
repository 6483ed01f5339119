package provision

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/logger"
	"github.com/softicar/samba-server-scripts/internal/password"
	"github.com/softicar/samba-server-scripts/internal/registry"
	"github.com/softicar/samba-server-scripts/internal/samba"
	"github.com/softicar/samba-server-scripts/internal/system"
)

// Setup runs the single-instance setup flow.
//
// On success the host exposes exactly one share backed by one
// login-disabled system user. On failure the flow stops at the failing
// step; earlier changes are left in place.
func (p *Provisioner) Setup(ctx context.Context) error {
	user := p.cfg.Samba.ShareUser

	fmt.Fprintln(p.out, "This sets up a Samba file share for SoftiCAR file storage.")
	fmt.Fprintf(p.out, "It installs the %s package, creates the system user %q and exposes one share.\n",
		p.cfg.Samba.Package, user)
	if err := p.confirmOrAbort("Continue?", true); err != nil {
		return err
	}

	// Package
	if system.PackageInstalled(ctx, p.runner, p.cfg.Samba.Package) {
		logger.Info("Package %s is already installed", p.cfg.Samba.Package)
	} else {
		logger.Info("Installing package %s", p.cfg.Samba.Package)
		if err := system.InstallPackage(ctx, p.runner, p.cfg.Samba.Package); err != nil {
			return err
		}
	}

	// System user
	if system.UserExists(ctx, p.runner, user) {
		if err := p.confirmOrAbort(
			fmt.Sprintf("System user %q already exists. Continue anyway?", user), false); err != nil {
			return err
		}
		logger.Info("Reusing existing system user %s", user)
	} else {
		logger.Info("Creating system user %s", user)
		if err := system.CreateSystemUser(ctx, p.runner, user); err != nil {
			return err
		}
	}

	// Share directory
	shareDir, err := p.prompter.Input("Share directory", p.cfg.Samba.ShareRoot)
	if err != nil {
		return err
	}

	dirExists, err := afero.DirExists(p.fs, shareDir)
	if err != nil {
		return fmt.Errorf("failed to check directory %s: %w", shareDir, err)
	}
	if dirExists {
		if err := p.confirmOrAbort(
			fmt.Sprintf("Directory %s already exists. Continue anyway?", shareDir), false); err != nil {
			return err
		}
	} else {
		logger.Info("Creating directory %s", shareDir)
		if err := system.MakeDirectory(ctx, p.runner, shareDir, "0755"); err != nil {
			return err
		}
	}
	if err := system.Chown(ctx, p.runner, user, user, shareDir); err != nil {
		return err
	}

	// Samba password
	var generated string
	if samba.UserRegistered(ctx, p.runner, user) {
		logger.Info("User %s is already registered with Samba, leaving the password unchanged", user)
	} else {
		generated, err = password.Generate()
		if err != nil {
			return err
		}
		logger.Info("Registering %s with the Samba password store", user)
		if err := samba.RegisterUser(ctx, p.runner, user, generated); err != nil {
			return err
		}
	}

	// Global configuration. The previous file is moved aside, not
	// merged: shares configured outside this tool are dropped from the
	// active configuration.
	confExists, err := afero.Exists(p.fs, p.cfg.Samba.ConfPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", p.cfg.Samba.ConfPath, err)
	}
	if confExists {
		if err := p.confirmOrAbort(
			fmt.Sprintf("%s already exists. It will be moved aside and any shares it defines will be dropped. Continue anyway?",
				p.cfg.Samba.ConfPath), false); err != nil {
			return err
		}
		backup, err := samba.RenameAside(ctx, p.fs, p.runner, p.cfg.Samba.ConfPath, p.now())
		if err != nil {
			return err
		}
		logger.Info("Moved previous configuration to %s", backup)
	}

	stanza, err := samba.ShareDefinition{Name: user, Path: shareDir, ValidUser: user}.Render()
	if err != nil {
		return err
	}
	logger.Info("Writing %s", p.cfg.Samba.ConfPath)
	if err := system.WriteFile(ctx, p.runner, p.cfg.Samba.ConfPath, stanza, "0644"); err != nil {
		return err
	}

	// Service
	logger.Info("Enabling and restarting service %s", p.cfg.Samba.Service)
	if err := system.EnableService(ctx, p.runner, p.cfg.Samba.Service); err != nil {
		return err
	}
	if err := system.RestartService(ctx, p.runner, p.cfg.Samba.Service); err != nil {
		return err
	}

	if err := p.registry.Put(ctx, registry.Record{
		Identifier: user,
		SharePath:  shareDir,
		CreatedAt:  p.now(),
	}); err != nil {
		return err
	}

	p.printCredentials(user, generated, "")
	return nil
}
