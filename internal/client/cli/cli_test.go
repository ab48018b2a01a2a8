package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/dashsync/internal/client/data"
	"github.com/iudanet/dashsync/internal/client/iocli"
	"github.com/iudanet/dashsync/internal/client/storage/boltdb"
	"github.com/iudanet/dashsync/internal/client/sync"
	"github.com/iudanet/dashsync/internal/models"
)

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// newMockIO собирает весь вывод в буфер и отдает ввод по очереди
func newMockIO(inputs ...string) (*iocli.IOMock, *bytes.Buffer) {
	var out bytes.Buffer
	mockIO := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(&out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(&out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			out.WriteString(prompt)
			if len(inputs) == 0 {
				return "", io.EOF
			}
			in := inputs[0]
			inputs = inputs[1:]
			return in, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "", io.EOF
		},
	}
	return mockIO, &out
}

type fakeSyncer struct {
	result sync.Result
	calls  int
}

func (f *fakeSyncer) ForceSync(ctx context.Context) sync.Result {
	f.calls++
	return f.result
}

type fakeConn struct {
	online bool
	probes int
}

func (f *fakeConn) Probe(ctx context.Context) bool {
	f.probes++
	return f.online
}

func newTestStore(t *testing.T) *boltdb.Storage {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// newTestCli собирает Cli поверх настоящего хранилища
func newTestCli(t *testing.T, mockIO iocli.IO) (*Cli, *boltdb.Storage) {
	t.Helper()
	store := newTestStore(t)
	c := New(mockIO, data.NewService(store), &fakeSyncer{}, store, &fakeConn{})
	c.now = func() time.Time { return testNow }
	return c, store
}

func mustField(t *testing.T, r *models.Record, name string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(r.Data, &fields))
	v, ok := fields[name]
	require.True(t, ok, "field %s not found", name)
	return v
}
