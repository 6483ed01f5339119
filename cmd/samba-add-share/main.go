package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/logger"
	"github.com/softicar/samba-server-scripts/internal/prompt"
	"github.com/softicar/samba-server-scripts/internal/provision"
	"github.com/softicar/samba-server-scripts/internal/system"
	"github.com/softicar/samba-server-scripts/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	list := flag.Bool("list", false, "List provisioned instances and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	output, closer, err := logger.OpenOutput(cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.SetOutput(output)

	reg, err := config.CreateRegistry(&cfg.Registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open instance registry: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Warn("Failed to close instance registry: %v", err)
		}
	}()

	provisioner := provision.New(cfg,
		afero.NewOsFs(),
		system.NewExecRunner(),
		prompt.New(os.Stdin, os.Stdout),
		reg,
		os.Stdout)

	ctx := context.Background()

	if *list {
		if err := provisioner.ListInstances(ctx, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list instances: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if system.RunningAsRoot() {
		fmt.Fprintln(os.Stderr, "Do not run this as root. Run it as a regular user with sudo rights.")
		os.Exit(1)
	}

	if err := provisioner.AddShare(ctx); err != nil {
		if errors.Is(err, provision.ErrAborted) {
			fmt.Fprintln(os.Stdout, "Aborted. No further changes were made.")
		} else {
			logger.Error("Adding the share failed: %v", err)
		}
		os.Exit(1)
	}
}
