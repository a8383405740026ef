// Package storage keeps uploaded invoice files on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore saves and removes uploaded files.
type FileStore interface {
	Save(ctx context.Context, studentID, eventID int64, originalName string, r io.Reader) (string, error)
	Remove(path string) error
}

// LocalFileStore writes invoices under {root}/invoices.
type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(root string) *LocalFileStore {
	return &LocalFileStore{dir: filepath.Join(root, "invoices")}
}

// sanitizeName strips any directory part so the stored file cannot escape
// the invoice directory.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}

// Save writes r as {studentID}_{eventID}_{token}_{basename} and returns the
// stored path. The random token keeps two uploads for the same registration
// from sharing a file, and an existing file is never overwritten.
func (s *LocalFileStore) Save(ctx context.Context, studentID, eventID int64, originalName string, r io.Reader) (string, error) {
	base := sanitizeName(originalName)
	if base == "" {
		return "", errors.New("invoice file name is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir: %w", err)
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	path := filepath.Join(s.dir, fmt.Sprintf("%d_%d_%s_%s", studentID, eventID, token, base))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write invoice: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close invoice: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file; a missing file is not an error.
func (s *LocalFileStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove invoice: %w", err)
	}
	return nil
}
