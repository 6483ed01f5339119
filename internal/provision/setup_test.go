package provision

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softicar/samba-server-scripts/internal/prompt"
	"github.com/softicar/samba-server-scripts/internal/registry"
	"github.com/softicar/samba-server-scripts/internal/system/systemtest"
	"github.com/softicar/samba-server-scripts/pkg/config"
)

// testEnv bundles everything a flow test needs to script and inspect a
// run.
type testEnv struct {
	provisioner *Provisioner
	runner      *systemtest.FakeRunner
	fs          afero.Fs
	registry    *registry.MemoryRegistry
	out         *bytes.Buffer
}

// newTestEnv builds a Provisioner over an in-memory filesystem, a fake
// runner mirroring file effects into it, and scripted operator input.
func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Registry.Type = "memory"

	fs := afero.NewMemMapFs()
	runner := systemtest.NewFakeRunner()
	runner.Fs = fs
	reg := registry.NewMemoryRegistry()
	out := &bytes.Buffer{}

	p := New(cfg, fs, runner, prompt.New(strings.NewReader(input), out), reg, out)
	p.now = func() time.Time { return time.Date(2026, 8, 30, 12, 4, 5, 0, time.UTC) }

	return &testEnv{provisioner: p, runner: runner, fs: fs, registry: reg, out: out}
}

// freshHost scripts the probes of a host with nothing provisioned yet.
func (e *testEnv) freshHost() {
	e.runner.FailWith("dpkg -s", errors.New("package not installed"))
	e.runner.FailWith("getent", errors.New("no such user"))
	e.runner.FailWith("pdbedit", errors.New("no such samba user"))
}

func TestSetup_FreshHost(t *testing.T) {
	// Greeting yes, share directory default.
	env := newTestEnv(t, "\n\n")
	env.freshHost()

	require.NoError(t, env.provisioner.Setup(context.Background()))

	t.Run("RunsEveryProvisioningStep", func(t *testing.T) {
		assert.True(t, env.runner.Ran("sudo apt-get install -y samba"))
		assert.True(t, env.runner.Ran("sudo useradd --system --shell /usr/sbin/nologin --no-create-home --user-group softicar-files"))
		assert.True(t, env.runner.Ran("sudo install -d -m 0755 /var/lib/softicar-files"))
		assert.True(t, env.runner.Ran("sudo chown softicar-files:softicar-files /var/lib/softicar-files"))
		assert.True(t, env.runner.Ran("sudo smbpasswd -a -s softicar-files"))
		assert.True(t, env.runner.Ran("sudo systemctl enable smbd"))
		assert.True(t, env.runner.Ran("sudo systemctl restart smbd"))
	})

	t.Run("WritesShareStanza", func(t *testing.T) {
		content, err := afero.ReadFile(env.fs, "/etc/samba/smb.conf")
		require.NoError(t, err)
		assert.Equal(t, "[softicar-files]\n"+
			"path = /var/lib/softicar-files\n"+
			"read only = no\n"+
			"valid users = softicar-files\n", string(content))
	})

	t.Run("RegistersGeneratedPassword", func(t *testing.T) {
		call := env.runner.FindCall("smbpasswd")
		require.NotNil(t, call)

		lines := strings.Split(call.Input, "\n")
		require.GreaterOrEqual(t, len(lines), 2)
		assert.Len(t, lines[0], 24)
		assert.Equal(t, lines[0], lines[1])
		assert.Regexp(t, "^[A-Za-z0-9]{24}$", lines[0])
	})

	t.Run("PrintsCredentialsOnce", func(t *testing.T) {
		call := env.runner.FindCall("smbpasswd")
		require.NotNil(t, call)
		generated := strings.Split(call.Input, "\n")[0]

		assert.Equal(t, 1, strings.Count(env.out.String(), generated))
		assert.Contains(t, env.out.String(), "Samba user: softicar-files")
		assert.Contains(t, env.out.String(), "Store these credentials")
	})

	t.Run("RecordsShareInRegistry", func(t *testing.T) {
		record, err := env.registry.Get(context.Background(), "softicar-files")
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/softicar-files", record.SharePath)
	})
}

func TestSetup_DeclinedGreetingAborts(t *testing.T) {
	env := newTestEnv(t, "n\n")

	err := env.provisioner.Setup(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.Empty(t, env.runner.Calls)
}

func TestSetup_ExistingUserDefaultsToAbort(t *testing.T) {
	// Greeting yes, then empty answer on the "user exists" prompt whose
	// default is no.
	env := newTestEnv(t, "\n\n")
	env.runner.FailWith("dpkg -s", errors.New("not installed"))

	err := env.provisioner.Setup(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.False(t, env.runner.Ran("useradd"))
}

func TestSetup_ExistingUserCanProceed(t *testing.T) {
	// Greeting yes, user exists -> proceed, share directory default.
	env := newTestEnv(t, "\ny\n\n")
	env.runner.FailWith("dpkg -s", errors.New("not installed"))
	env.runner.FailWith("pdbedit", errors.New("not registered"))

	require.NoError(t, env.provisioner.Setup(context.Background()))
	assert.False(t, env.runner.Ran("useradd"), "existing user must not be recreated")
	assert.True(t, env.runner.Ran("smbpasswd"))
}

func TestSetup_ExistingConfigMovedAside(t *testing.T) {
	// Greeting yes, share directory default, config-exists prompt yes.
	env := newTestEnv(t, "\n\ny\n")
	env.freshHost()
	require.NoError(t, afero.WriteFile(env.fs, "/etc/samba/smb.conf", []byte("[old-share]\n"), 0644))

	require.NoError(t, env.provisioner.Setup(context.Background()))

	backup, err := afero.ReadFile(env.fs, "/etc/samba/smb.conf.20260830-120405.bak")
	require.NoError(t, err)
	assert.Equal(t, "[old-share]\n", string(backup))

	current, err := afero.ReadFile(env.fs, "/etc/samba/smb.conf")
	require.NoError(t, err)
	assert.NotContains(t, string(current), "[old-share]")
	assert.Contains(t, string(current), "[softicar-files]")
}

func TestSetup_RegisteredUserKeepsPassword(t *testing.T) {
	// Greeting yes, user exists -> proceed, share directory default,
	// config absent. pdbedit succeeds, so no new password is set.
	env := newTestEnv(t, "\ny\n\n")
	env.runner.FailWith("dpkg -s", errors.New("not installed"))

	require.NoError(t, env.provisioner.Setup(context.Background()))
	assert.False(t, env.runner.Ran("smbpasswd"))
	assert.Contains(t, env.out.String(), "(unchanged)")
}

func TestSetup_FailedStepIsFatal(t *testing.T) {
	env := newTestEnv(t, "\n\n")
	env.freshHost()
	env.runner.FailWith("useradd", errors.New("exit status 1"))

	err := env.provisioner.Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "softicar-files")
	assert.False(t, env.runner.Ran("smbpasswd"), "flow must stop at the failing step")
	assert.False(t, env.runner.Ran("systemctl"))
}

func TestSetup_PromptedDirectoryOverride(t *testing.T) {
	env := newTestEnv(t, "\n/srv/files\n")
	env.freshHost()

	require.NoError(t, env.provisioner.Setup(context.Background()))
	assert.True(t, env.runner.Ran("sudo install -d -m 0755 /srv/files"))
	assert.True(t, env.runner.Ran("sudo chown softicar-files:softicar-files /srv/files"))

	content, err := afero.ReadFile(env.fs, "/etc/samba/smb.conf")
	require.NoError(t, err)
	assert.Contains(t, string(content), "path = /srv/files")
}
