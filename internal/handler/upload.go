package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"docinsight/internal/domain"
	"docinsight/internal/ingest"
)

// openUpload opens a multipart file after checking its size and that its
// name and content both identify it as want. The returned file is rewound.
func openUpload(h *multipart.FileHeader, want domain.FileType, maxBytes int64) (multipart.File, error) {
	if maxBytes > 0 && h.Size > maxBytes {
		return nil, fmt.Errorf("%s: %w", h.Filename, domain.ErrFileTooLarge)
	}

	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIngestion, h.Filename, err)
	}

	head := make([]byte, ingest.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIngestion, h.Filename, err)
	}

	kind, err := ingest.DetectKind(h.Filename, head[:n])
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", h.Filename, err)
	}
	if kind != want {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w: expected %s", h.Filename, domain.ErrUnsupportedFileType, want)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrIngestion, h.Filename, err)
	}
	return f, nil
}
