package samba

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softicar/samba-server-scripts/internal/system/systemtest"
)

func TestShareDefinitionRender(t *testing.T) {
	def := ShareDefinition{
		Name:      "instance-foo",
		Path:      "/var/lib/instance-foo",
		ValidUser: "instance-foo",
	}

	stanza, err := def.Render()
	require.NoError(t, err)

	expected := "[instance-foo]\n" +
		"path = /var/lib/instance-foo\n" +
		"read only = no\n" +
		"valid users = instance-foo\n"
	assert.Equal(t, expected, stanza)
}

func TestUserRegistered(t *testing.T) {
	t.Run("TrueWhenPdbeditSucceeds", func(t *testing.T) {
		runner := systemtest.NewFakeRunner()

		assert.True(t, UserRegistered(context.Background(), runner, "softicar-files"))
		assert.True(t, runner.Ran("sudo pdbedit -u softicar-files"))
	})

	t.Run("FalseWhenPdbeditFails", func(t *testing.T) {
		runner := systemtest.NewFakeRunner()
		runner.FailWith("pdbedit", errors.New("unknown user"))

		assert.False(t, UserRegistered(context.Background(), runner, "softicar-files"))
	})
}

func TestRegisterUser(t *testing.T) {
	runner := systemtest.NewFakeRunner()

	require.NoError(t, RegisterUser(context.Background(), runner, "instance-foo", "secret"))

	call := runner.FindCall("smbpasswd -a -s instance-foo")
	require.NotNil(t, call)
	assert.Equal(t, "secret\nsecret\n", call.Input)
}

func TestRegenerateIncludes(t *testing.T) {
	t.Run("ListsEveryFragmentSorted", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/etc/samba/softicar-shares", 0755))
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/softicar-shares/instance-zeta.conf", []byte("[z]\n"), 0644))
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/softicar-shares/instance-alpha.conf", []byte("[a]\n"), 0644))
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/softicar-shares/notes.txt", []byte("ignore me"), 0644))

		runner := systemtest.NewFakeRunner()
		err := RegenerateIncludes(context.Background(), fs, runner,
			"/etc/samba/softicar-shares", "/etc/samba/softicar-includes.conf")
		require.NoError(t, err)

		call := runner.FindCall("tee /etc/samba/softicar-includes.conf")
		require.NotNil(t, call)

		expected := IncludesBanner +
			"include = /etc/samba/softicar-shares/instance-alpha.conf\n" +
			"include = /etc/samba/softicar-shares/instance-zeta.conf\n"
		assert.Equal(t, expected, call.Input)
	})

	t.Run("EmptyDirectoryYieldsOnlyBanner", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/etc/samba/softicar-shares", 0755))

		runner := systemtest.NewFakeRunner()
		err := RegenerateIncludes(context.Background(), fs, runner,
			"/etc/samba/softicar-shares", "/etc/samba/softicar-includes.conf")
		require.NoError(t, err)

		call := runner.FindCall("tee /etc/samba/softicar-includes.conf")
		require.NotNil(t, call)
		assert.Equal(t, IncludesBanner, call.Input)
	})

	t.Run("FailsWhenFragmentsDirectoryMissing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runner := systemtest.NewFakeRunner()

		err := RegenerateIncludes(context.Background(), fs, runner,
			"/etc/samba/missing", "/etc/samba/softicar-includes.conf")
		assert.Error(t, err)
	})
}

func TestEnsureIncluded(t *testing.T) {
	t.Run("AppendsDirectiveWhenMissing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/smb.conf", []byte("[global]\n"), 0644))

		runner := systemtest.NewFakeRunner()
		err := EnsureIncluded(context.Background(), fs, runner,
			"/etc/samba/smb.conf", "/etc/samba/softicar-includes.conf")
		require.NoError(t, err)

		call := runner.FindCall("tee -a /etc/samba/smb.conf")
		require.NotNil(t, call)
		assert.True(t, strings.Contains(call.Input, "include = /etc/samba/softicar-includes.conf"))
	})

	t.Run("DoesNothingWhenAlreadyPresent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		content := "[global]\ninclude = /etc/samba/softicar-includes.conf\n"
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/smb.conf", []byte(content), 0644))

		runner := systemtest.NewFakeRunner()
		err := EnsureIncluded(context.Background(), fs, runner,
			"/etc/samba/smb.conf", "/etc/samba/softicar-includes.conf")
		require.NoError(t, err)

		assert.Empty(t, runner.Calls)
	})

	t.Run("AppendsWhenConfigAbsent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runner := systemtest.NewFakeRunner()

		err := EnsureIncluded(context.Background(), fs, runner,
			"/etc/samba/smb.conf", "/etc/samba/softicar-includes.conf")
		require.NoError(t, err)
		assert.True(t, runner.Ran("tee -a /etc/samba/smb.conf"))
	})
}

func TestRenameAside(t *testing.T) {
	t.Run("MovesExistingFileWithTimestampSuffix", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/etc/samba/smb.conf", []byte("[old]\n"), 0644))

		runner := systemtest.NewFakeRunner()
		now := time.Date(2026, 8, 30, 12, 4, 5, 0, time.UTC)

		backup, err := RenameAside(context.Background(), fs, runner, "/etc/samba/smb.conf", now)
		require.NoError(t, err)
		assert.Equal(t, "/etc/samba/smb.conf.20260830-120405.bak", backup)
		assert.True(t, runner.Ran("sudo mv /etc/samba/smb.conf /etc/samba/smb.conf.20260830-120405.bak"))
	})

	t.Run("NoopWhenFileMissing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runner := systemtest.NewFakeRunner()

		backup, err := RenameAside(context.Background(), fs, runner, "/etc/samba/smb.conf", time.Now())
		require.NoError(t, err)
		assert.Empty(t, backup)
		assert.Empty(t, runner.Calls)
	})
}
