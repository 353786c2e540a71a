package ingest

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// withTempCopy copies r into a temporary file, calls fn with its path and
// removes the file afterwards, on success or failure.
func withTempCopy(dir, pattern string, r io.Reader, log *zap.Logger, fn func(path string) error) error {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn("failed to remove temp file", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return fn(path)
}
