package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/iocli"
)

// isolate направляет конфигурацию и базу во временный каталог
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DASHSYNC_DB_PATH", filepath.Join(dir, "data", "dashsync.db"))
	t.Setenv("DASHSYNC_SERVER_URL", "http://127.0.0.1:1")
	return dir
}

func run(t *testing.T, mockIO iocli.IO, args ...string) error {
	t.Helper()
	return Execute(context.Background(), VersionInfo{Version: "1.2.3", BuildDate: "today", GitCommit: "abc"}, mockIO, args)
}

func TestExecute_Version(t *testing.T) {
	isolate(t)
	mockIO, out := newMockIO()

	require.NoError(t, run(t, mockIO, "version"))
	assert.Contains(t, out.String(), "Version:    1.2.3")
	assert.Contains(t, out.String(), "Git Commit: abc")
}

func TestExecute_AddListQueue(t *testing.T) {
	dir := isolate(t)
	mockIO, out := newMockIO()

	require.NoError(t, run(t, mockIO, "add", "tasks", "--data", `{"title":"Water plants","priority":"low"}`))
	assert.Contains(t, out.String(), "Added tasks record")
	assert.FileExists(t, filepath.Join(dir, "data", "dashsync.db"))

	out.Reset()
	require.NoError(t, run(t, mockIO, "list", "tasks", "--status", "pending"))
	assert.Contains(t, out.String(), "Found 1 record(s)")
	assert.Contains(t, out.String(), "Water plants")

	out.Reset()
	require.NoError(t, run(t, mockIO, "queue"))
	assert.Contains(t, out.String(), "1 pending mutation(s)")
}

func TestExecute_Errors(t *testing.T) {
	isolate(t)
	mockIO, _ := newMockIO()

	assert.Error(t, run(t, mockIO, "add", "notes", "--data", "{}"))
	assert.Error(t, run(t, mockIO, "list", "tasks", "--status", "lost"))
	assert.Error(t, run(t, mockIO, "get", "tasks"))
	assert.Error(t, run(t, mockIO, "--server", "ftp://nowhere", "queue"))
}

func TestExecute_EncryptedStore(t *testing.T) {
	isolate(t)
	t.Setenv("DASHSYNC_PASSPHRASE", "correct horse")
	mockIO, _ := newMockIO()

	require.NoError(t, run(t, mockIO, "add", "events", "--data", `{"title":"Dentist","startTime":"2024-05-01T09:00:00Z"}`))

	t.Setenv("DASHSYNC_PASSPHRASE", "wrong")
	assert.Error(t, run(t, mockIO, "list", "events"))

	// Без парольной фразы она запрашивается интерактивно, mock возвращает EOF
	t.Setenv("DASHSYNC_PASSPHRASE", "")
	assert.Error(t, run(t, mockIO, "list", "events"))
	assert.NotEmpty(t, mockIO.ReadPasswordCalls())
}

func TestNeedsSetup(t *testing.T) {
	mockIO, _ := newMockIO()
	root := newRootCmd(newApp(VersionInfo{}, mockIO))

	version, _, err := root.Find([]string{"version"})
	require.NoError(t, err)
	assert.False(t, needsSetup(version))

	assert.False(t, needsSetup(&cobra.Command{Use: "help"}))

	list, _, err := root.Find([]string{"list"})
	require.NoError(t, err)
	assert.True(t, needsSetup(list))
}
