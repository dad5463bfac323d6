package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	ctx := context.Background()
	key := "cv/pos-1/file.pdf"

	require.NoError(t, s.Save(ctx, key, strings.NewReader("%PDF-1.4"), "application/pdf"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)
	exerciseStorage(t, s)
}

func TestLocalStorageKeepsKeysInsideBase(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	full, err := s.fullPath("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, base))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("cv", "pos-1", "My CV.PDF")
	assert.True(t, strings.HasPrefix(key, "cv/pos-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	assert.True(t, strings.HasPrefix(ObjectKey("cv", "", "x.docx"), "cv/unassigned/"))
	assert.NotEqual(t, ObjectKey("cv", "p", "a.pdf"), ObjectKey("cv", "p", "a.pdf"))
}

func TestNewStorageRejectsUnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewStorage(Config{Type: "cloudflare_r2", Bucket: "b"})
	assert.Error(t, err)
}
