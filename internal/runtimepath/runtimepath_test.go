package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, td, got)
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	require.NoError(t, err)
	require.NotEmpty(t, got)

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/tilewm-runtime-%d", os.Getuid())
	assert.Contains(t, []string{wantRun, wantTmp}, got)
}

func TestSocketAndPIDPaths(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	socket, err := SocketPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(td, "tilewm.sock"), socket)

	pid, err := PIDPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(td, "tilewm.pid"), pid)
}
