// Package ingest reads uploaded documents: file type detection, scoped
// temporary copies and PDF text extraction.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"docinsight/internal/domain"
)

// SniffLen is the number of leading bytes DetectKind needs.
const SniffLen = 3072

// DetectKind validates an upload by extension and by content. Both must
// agree on a supported FileType.
func DetectKind(filename string, head []byte) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	byExt, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", domain.ErrUnsupportedFileType, ext)
	}

	mt := mimetype.Detect(head)
	for m := mt; m != nil; m = m.Parent() {
		for contentType, ft := range domain.AllowedContentTypes {
			if m.Is(contentType) && ft == byExt {
				return ft, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s content in .%s file", domain.ErrUnsupportedFileType, mt.String(), ext)
}
