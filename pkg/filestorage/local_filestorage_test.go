package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorage_SaveAsAndDelete(t *testing.T) {
	base := t.TempDir()
	storage, err := NewLocalFileStorage(base)
	require.NoError(t, err)

	url, err := storage.SaveAs(strings.NewReader("jpeg"), "maintenance-7-1700000000000.jpg", "maintenance")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/maintenance/maintenance-7-1700000000000.jpg", url)

	data, err := os.ReadFile(filepath.Join(base, "maintenance", "maintenance-7-1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, storage.Delete(url))
	_, err = os.Stat(filepath.Join(base, "maintenance", "maintenance-7-1700000000000.jpg"))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, storage.Delete(url))
}

func TestLocalFileStorage_SaveAsRejectsPath(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.SaveAs(strings.NewReader("x"), "../evil.jpg", "maintenance")
	assert.Error(t, err)
}

func TestLocalFileStorage_SaveGeneratesName(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	url, err := storage.Save(strings.NewReader("x"), "checklist.pdf", "checklists")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/checklists/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))
}
