// Package registry records the shares this tool has provisioned.
//
// The registry is bookkeeping only: the existence checks that gate
// provisioning are always live filesystem and OS probes, so a lost or
// stale registry can never cause an unsafe overwrite.
package registry

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an instance has no registry record.
var ErrNotFound = errors.New("instance not found")

// Record describes one provisioned share.
type Record struct {
	// Identifier is the canonical instance identifier; it is also the
	// system user, the share name, and the directory basename.
	Identifier string `json:"identifier"`

	// Name is the operator-supplied instance name, empty for the
	// single-instance share.
	Name string `json:"name,omitempty"`

	// SharePath is the backing directory.
	SharePath string `json:"share_path"`

	// FragmentPath is the per-instance config fragment, empty for the
	// single-instance share (which owns the global config file).
	FragmentPath string `json:"fragment_path,omitempty"`

	// CreatedAt is when provisioning completed.
	CreatedAt time.Time `json:"created_at"`
}

// Registry stores provisioning records.
type Registry interface {
	// Put inserts or replaces the record for its identifier.
	Put(ctx context.Context, record Record) error

	// Get returns the record for an identifier, or ErrNotFound.
	Get(ctx context.Context, identifier string) (*Record, error)

	// List returns all records ordered by identifier.
	List(ctx context.Context) ([]Record, error)

	// Close releases underlying resources.
	Close() error
}
