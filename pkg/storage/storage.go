// Package storage keeps uploaded images on a filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrInvalidFileType is returned for uploads that are not images.
var ErrInvalidFileType = errors.New("Invalid file type. Please upload PNG, JPG, JPEG, or GIF images.")

// StoredPrefix is the prefix of paths recorded in the database.
const StoredPrefix = "uploads/"

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Uploads stores files under a directory of an afero filesystem.
type Uploads struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewUploads creates the upload directory if needed.
func NewUploads(fs afero.Fs, dir string) (*Uploads, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Uploads{fs: fs, dir: dir, now: time.Now}, nil
}

// AllowedFile reports whether name has an accepted image extension.
func AllowedFile(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// SecureFilename strips directories and unsafe characters from name.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}

// SaveMultipart stores an uploaded image and returns its stored path,
// e.g. "uploads/20250101_120000_1a2b3c4d_cover.png".
func (u *Uploads) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	if !AllowedFile(fh.Filename) {
		return "", ErrInvalidFileType
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return u.Save(fh.Filename, src)
}

// Save writes r under a unique name derived from original.
func (u *Uploads) Save(original string, r io.Reader) (string, error) {
	if !AllowedFile(original) {
		return "", ErrInvalidFileType
	}
	name := fmt.Sprintf("%s_%s_%s",
		u.now().Format("20060102_150405"),
		uuid.NewString()[:8],
		SecureFilename(original),
	)

	dst, err := u.fs.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return StoredPrefix + name, nil
}

// Resolve maps a stored path ("uploads/x.png" or a bare "x.png") to its
// location on the filesystem.
func (u *Uploads) Resolve(stored string) string {
	name := path.Base(strings.TrimPrefix(strings.ReplaceAll(stored, "\\", "/"), StoredPrefix))
	return filepath.Join(u.dir, name)
}

// Remove deletes a stored file. Empty paths and missing files are ignored.
func (u *Uploads) Remove(stored string) error {
	if strings.TrimSpace(stored) == "" {
		return nil
	}
	err := u.fs.Remove(u.Resolve(stored))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", stored, err)
	}
	return nil
}
