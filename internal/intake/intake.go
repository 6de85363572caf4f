// Package intake validates files staged for upload.
package intake

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload ceiling: 10 MiB, matching the backend's 413 limit.
const MaxFileSize = 10 * 1024 * 1024

// Rejection reasons surfaced verbatim to the user.
var (
	ErrNoFile   = errors.New("no file selected")
	ErrNotPDF   = errors.New("Only PDF files are allowed")
	ErrTooLarge = errors.New("File size must be less than 10MB")
)

// Attachment is a file staged for the next submission.
type Attachment struct {
	Name string
	Path string
	Size int64
	MIME string
}

// FromPath stats a file and builds an attachment from it. The MIME type is
// inferred from the extension; an unknown extension leaves it empty, which
// is fine because Validate also accepts by filename.
func FromPath(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &Attachment{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
		MIME: mime.TypeByExtension(filepath.Ext(path)),
	}, nil
}

// Validate applies the acceptance rules in order: presence, type, size.
// The type check passes when either the MIME type mentions pdf or the
// filename ends in .pdf, case-insensitive — browsers routinely report an
// empty MIME type for dropped files.
func Validate(a *Attachment) error {
	if a == nil {
		return ErrNoFile
	}

	isPDF := strings.Contains(strings.ToLower(a.MIME), "pdf") ||
		strings.HasSuffix(strings.ToLower(a.Name), ".pdf")
	if !isPDF {
		return ErrNotPDF
	}

	if a.Size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// FormatSize renders a byte count in mebibytes to two decimals, the way the
// chat transcript reports attachment sizes.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
}
