// Package samba contains the Samba-specific pieces of provisioning:
// share stanza rendering, the password store, the generated includes
// file, and global configuration handling.
package samba

import (
	"bytes"
	"fmt"
	"text/template"
)

// ShareDefinition describes one network share stanza.
//
// Name, directory basename and valid user are derived from the same
// identifier by the provisioning flows, so a rendered stanza is always
// internally consistent.
type ShareDefinition struct {
	// Name is the share name exposed over SMB.
	Name string

	// Path is the backing directory on the host.
	Path string

	// ValidUser is the only user allowed to access the share.
	ValidUser string
}

const shareTemplate = `[{{.Name}}]
path = {{.Path}}
read only = no
valid users = {{.ValidUser}}
`

var shareTmpl = template.Must(template.New("share").Parse(shareTemplate))

// Render produces the INI-style configuration stanza for the share.
func (d ShareDefinition) Render() (string, error) {
	var buf bytes.Buffer
	if err := shareTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render share stanza for %s: %w", d.Name, err)
	}
	return buf.String(), nil
}
