package logx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OpenDailyFile opens (appending) the log file of the given day: <dir>/YYYYMMDD.log.
func OpenDailyFile(dir string, day time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	path := filepath.Join(dir, day.Format("20060102")+".log")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile: %w", err)
	}

	return f, nil
}
