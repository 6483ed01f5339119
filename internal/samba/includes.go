package samba

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/softicar/samba-server-scripts/internal/system"
)

// IncludesBanner is written at the top of the generated includes file.
const IncludesBanner = "# Generated file. Do not edit.\n# Re-run samba-add-share to regenerate this file.\n"

// RegenerateIncludes rewrites the includes file from scratch.
//
// The fragments directory is scanned for *.conf files and the includes
// file receives one "include =" directive per fragment, sorted by name.
// Fragments that no longer exist simply drop out because nothing from
// the previous file is carried over.
func RegenerateIncludes(ctx context.Context, fs afero.Fs, runner system.Runner, fragmentsDir, includesFile string) error {
	entries, err := afero.ReadDir(fs, fragmentsDir)
	if err != nil {
		return fmt.Errorf("failed to list fragments directory %s: %w", fragmentsDir, err)
	}

	var fragments []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".conf") {
			continue
		}
		fragments = append(fragments, filepath.Join(fragmentsDir, entry.Name()))
	}
	sort.Strings(fragments)

	var builder strings.Builder
	builder.WriteString(IncludesBanner)
	for _, fragment := range fragments {
		builder.WriteString("include = " + fragment + "\n")
	}

	if err := system.WriteFile(ctx, runner, includesFile, builder.String(), "0644"); err != nil {
		return fmt.Errorf("failed to regenerate includes file: %w", err)
	}
	return nil
}

// EnsureIncluded makes sure the global configuration pulls in the
// includes file, appending the directive when a text search does not
// find it.
func EnsureIncluded(ctx context.Context, fs afero.Fs, runner system.Runner, confPath, includesFile string) error {
	directive := "include = " + includesFile

	content, err := afero.ReadFile(fs, confPath)
	if err != nil && !isNotExist(fs, confPath) {
		return fmt.Errorf("failed to read %s: %w", confPath, err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == directive {
			return nil
		}
	}

	if err := system.AppendToFile(ctx, runner, confPath, "\n"+directive+"\n"); err != nil {
		return fmt.Errorf("failed to reference includes file in %s: %w", confPath, err)
	}
	return nil
}

func isNotExist(fs afero.Fs, path string) bool {
	exists, err := afero.Exists(fs, path)
	return err == nil && !exists
}
