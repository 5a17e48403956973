package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	require.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.True(t, Exists(path))
}

func TestStat_ReturnsModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	fi, err := os.Stat(path)
	require.NoError(t, err)

	times, err := Stat(path)
	require.NoError(t, err)
	require.True(t, times.ModifiedAt.Equal(fi.ModTime()))
	require.True(t, times.CreatedAt.Equal(fi.ModTime()))
}

func TestStat_Missing(t *testing.T) {
	_, err := Stat(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestReadWriteAll_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")

	require.NoError(t, WriteAll(path, []byte{0x00, 0x01, 0xff}))
	data, err := ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0xff}, data)
}

func TestWriteAll_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")

	require.NoError(t, WriteAll(path, []byte("first version")))
	require.NoError(t, WriteAll(path, []byte("second")))

	data, err := ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)
}
