package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/howl/internal/config"
)

func newTestStore(t *testing.T, maxBytes int64, ttl int) *Store {
	t.Helper()

	store, err := NewStore(&config.UploadConfig{
		Dir:      t.TempDir(),
		MaxBytes: maxBytes,
		TTL:      ttl,
	})
	require.NoError(t, err)
	return store
}

func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/file/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	return file, header
}

func TestSave_WritesFileWithExtension(t *testing.T) {
	store := newTestStore(t, 1024, 3600)

	file, header := multipartFile(t, "photo.png", []byte("fake png"))
	defer file.Close()

	name, err := store.Save(file, header)
	require.NoError(t, err)
	require.Equal(t, ".png", filepath.Ext(name))

	saved, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	require.Equal(t, []byte("fake png"), saved)
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	store := newTestStore(t, 4, 3600)

	file, header := multipartFile(t, "big.bin", []byte("way too large"))
	defer file.Close()

	_, err := store.Save(file, header)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSweep_RemovesOnlyExpiredFiles(t *testing.T) {
	store := newTestStore(t, 1024, 60)

	expired := filepath.Join(store.Dir(), "old.png")
	require.NoError(t, os.WriteFile(expired, []byte("x"), 0o644))
	past := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(expired, past, past))

	fresh := filepath.Join(store.Dir(), "new.png")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	store.Sweep(context.Background())

	require.NoFileExists(t, expired)
	require.FileExists(t, fresh)
}
