package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"transfer_scanner/internal/domain"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var timeNow = time.Now //nolint:gochecknoglobals

var backupRename = os.Rename //nolint:gochecknoglobals

const filePerm fs.FileMode = 0o644

const backupTimestampLayout = "0102150405"

// LoadOrInit reads a JSON file into T. A missing or empty file is created with the default.
// A malformed file is moved aside to BackupPath and replaced by the default; that is not an error.
func LoadOrInit[T any](ctx context.Context, path string, newDefault func() T) (T, error) {
	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return writeDefault(path, newDefault)
	case err != nil:
		var zero T

		return zero, fmt.Errorf("os.ReadFile: %w", err)
	case len(bytes.TrimSpace(data)) == 0:
		return writeDefault(path, newDefault)
	}

	var value *T
	if err := json.Unmarshal(data, &value); err != nil {
		logger(ctx).ErrorContext(ctx, "invalid json in state file",
			slog.String(logx.FieldPath, path),
			logx.Error(domain.WrapError(err, errcodes.StateCorrupted, "invalid json")),
		)
		metrics.StateResets.Inc()

		backup := BackupPath(path, timeNow())
		if err := backupRename(path, backup); err != nil {
			logger(ctx).ErrorContext(ctx, "failed to back up state file",
				slog.String(logx.FieldPath, path),
				logx.Error(err),
			)
		} else {
			logger(ctx).WarnContext(ctx, "state file backed up", slog.String(logx.FieldPath, backup))
		}

		return writeDefault(path, newDefault)
	}

	if value == nil {
		return newDefault(), nil
	}

	return *value, nil
}

// Save overwrites path with pretty-printed JSON via a temp file in the same directory.
func Save[T any](path string, value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Write: %w", err)
	}

	// CreateTemp создает файл с 0600
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Chmod: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

// BackupPath: deals.json -> deals.invalid.1016143500.json.
func BackupPath(path string, now time.Time) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + ".invalid." + now.Format(backupTimestampLayout) + ext
}

func writeDefault[T any](path string, newDefault func() T) (T, error) {
	value := newDefault()

	if err := Save(path, value); err != nil {
		var zero T

		return zero, fmt.Errorf("write default %s: %w", path, err)
	}

	return value, nil
}
