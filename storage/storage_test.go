package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveWritesKeyedFile(t *testing.T) {
	root := t.TempDir()
	fs := NewLocalFileStore(root)

	path, err := fs.Save(context.Background(), 7, 42, "receipt.pdf", strings.NewReader("paid"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "invoices"), filepath.Dir(path))
	require.Regexp(t, `^7_42_[0-9a-f]{12}_receipt\.pdf$`, filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "paid", string(b))
}

func TestSaveStripsDirectories(t *testing.T) {
	root := t.TempDir()
	fs := NewLocalFileStore(root)

	for _, name := range []string{"../../etc/passwd", `..\..\evil.txt`, "/abs/x.png"} {
		path, err := fs.Save(context.Background(), 1, 2, name, strings.NewReader("x"))
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "invoices"), filepath.Dir(path))
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	fs := NewLocalFileStore(t.TempDir())
	for _, name := range []string{"", ".", ".."} {
		_, err := fs.Save(context.Background(), 1, 2, name, strings.NewReader("x"))
		require.Error(t, err, name)
	}
}

func TestRemove(t *testing.T) {
	fs := NewLocalFileStore(t.TempDir())
	path, err := fs.Save(context.Background(), 1, 2, "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, fs.Remove(path))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, fs.Remove(path))
	require.NoError(t, fs.Remove(""))
}

func TestSaveSameKeyKeepsBothFiles(t *testing.T) {
	fs := NewLocalFileStore(t.TempDir())
	ctx := context.Background()

	first, err := fs.Save(ctx, 3, 9, "inv.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	second, err := fs.Save(ctx, 3, 9, "inv.pdf", strings.NewReader("second"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, fs.Remove(second))
	b, err := os.ReadFile(first)
	require.NoError(t, err)
	require.Equal(t, "first", string(b))
}
