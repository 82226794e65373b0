package persistence_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/infrastructure/persistence"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/metrics"
)

type sample struct {
	Name  string   `json:"Name"`
	Items []string `json:"Items"`
}

func newSample() sample {
	return sample{Name: "default", Items: []string{}}
}

func TestLoadOrInitMissingFile(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "state.json")

	value, err := persistence.LoadOrInit(context.Background(), path, newSample)
	rq.NoError(err)
	rq.Equal(newSample(), value)

	data, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Equal("{\n  \"Name\": \"default\",\n  \"Items\": []\n}", string(data))

	again, err := persistence.LoadOrInit(context.Background(), path, newSample)
	rq.NoError(err)
	rq.Equal(value, again)
}

func TestLoadOrInitEmptyFile(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "state.json")
	rq.NoError(os.WriteFile(path, []byte("  \n"), 0o600))

	value, err := persistence.LoadOrInit(context.Background(), path, newSample)
	rq.NoError(err)
	rq.Equal(newSample(), value)

	data, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Contains(string(data), `"default"`)
}

func TestLoadOrInitValidFile(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "state.json")
	rq.NoError(os.WriteFile(path, []byte(`{"Name":"stored","Items":["a","b"]}`), 0o600))

	value, err := persistence.LoadOrInit(context.Background(), path, newSample)
	rq.NoError(err)
	rq.Equal(sample{Name: "stored", Items: []string{"a", "b"}}, value)
}

func TestLoadOrInitCorruptedFile(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "20261016deals.json")
	corrupted := []byte(`{"Info": ["https://hattrick.org/... | Deadline`)
	rq.NoError(os.WriteFile(path, corrupted, 0o600))

	value, err := persistence.LoadOrInit(context.Background(), path, newSample)
	rq.NoError(err)
	rq.Equal(newSample(), value)

	entries, err := os.ReadDir(dir)
	rq.NoError(err)
	rq.Len(entries, 2)

	backupPattern := regexp.MustCompile(`^20261016deals\.invalid\.\d{10}\.json$`)

	var backup string

	for _, entry := range entries {
		if backupPattern.MatchString(entry.Name()) {
			backup = filepath.Join(dir, entry.Name())
		}
	}

	rq.NotEmpty(backup)

	preserved, err := os.ReadFile(backup)
	rq.NoError(err)
	rq.Equal(corrupted, preserved)

	fresh, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Contains(string(fresh), `"default"`)
}

func TestLoadOrInitCorruptedFileBackupFails(t *testing.T) {
	rq := require.New(t)

	persistence.StubBackupRename(t, func(string, string) error {
		return errors.New("read-only backup target")
	})

	var buf bytes.Buffer

	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	dir := t.TempDir()
	path := filepath.Join(dir, "20261016processed.json")
	rq.NoError(os.WriteFile(path, []byte(`{"Name": "unterminated`), 0o600))

	resets := testutil.ToFloat64(metrics.StateResets)

	value, err := persistence.LoadOrInit(ctx, path, newSample)
	rq.NoError(err)
	rq.Equal(newSample(), value)

	data, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Equal("{\n  \"Name\": \"default\",\n  \"Items\": []\n}", string(data))

	entries, err := os.ReadDir(dir)
	rq.NoError(err)
	rq.Len(entries, 1, "no backup and no temp files left")

	rq.InDelta(resets+1, testutil.ToFloat64(metrics.StateResets), 1e-9)
	rq.Contains(buf.String(), "failed to back up state file")
	rq.Contains(buf.String(), "read-only backup target")
}

func TestBackupPath(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 10, 16, 14, 35, 9, 0, time.UTC)

	rq.Equal("/state/20261016processed.invalid.1016143509.json",
		persistence.BackupPath("/state/20261016processed.json", now))
	rq.Equal("settings.invalid.1016143509", persistence.BackupPath("settings", now))
}

func TestSaveOverwrites(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "state.json")

	rq.NoError(persistence.Save(path, sample{Name: "first", Items: []string{"1", "2", "3"}}))
	rq.NoError(persistence.Save(path, sample{Name: "second", Items: []string{}}))

	data, err := os.ReadFile(path)
	rq.NoError(err)
	rq.Equal("{\n  \"Name\": \"second\",\n  \"Items\": []\n}", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	rq.NoError(err)
	rq.Len(entries, 1)
}

func TestSaveFileMode(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "deals.json")

	rq.NoError(persistence.Save(path, newSample()))

	info, err := os.Stat(path)
	rq.NoError(err)
	rq.Equal(os.FileMode(0o644), info.Mode().Perm())
}
