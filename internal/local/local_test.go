package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemFiles(t *testing.T) (*Files, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/work/docs", 0755))
	require.NoError(t, fsys.MkdirAll("/work/archive", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/work/b.txt", []byte("bee"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/work/a.txt", []byte("ay"), 0644))
	return New(fsys), fsys
}

func TestListFilesAndDirectories(t *testing.T) {
	files, _ := newMemFiles(t)

	names, err := files.ListFiles("/work")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)

	dirs, err := files.ListDirectories("/work")
	require.NoError(t, err)
	assert.Equal(t, []string{"archive", "docs"}, dirs)
}

func TestListMissingDirIsNotFound(t *testing.T) {
	files, _ := newMemFiles(t)

	_, err := files.ListFiles("/nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestExists(t *testing.T) {
	files, _ := newMemFiles(t)

	ok, err := files.Exists("/work/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = files.Exists("/work/zzz.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadBytesClassifiesNotFound(t *testing.T) {
	files, _ := newMemFiles(t)

	data, err := files.ReadBytes("/work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "ay", string(data))

	_, err = files.ReadBytes("/work/missing.txt")
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, KindNotFound, le.Kind)
	assert.Equal(t, "read", le.Op)
}

func TestWriteBytesNeverTruncates(t *testing.T) {
	files, fsys := newMemFiles(t)

	require.NoError(t, files.WriteBytes("/work/new.txt", []byte("fresh")))
	got, err := afero.ReadFile(fsys, "/work/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))

	err = files.WriteBytes("/work/a.txt", []byte("clobber"))
	require.Error(t, err)
	got, err = afero.ReadFile(fsys, "/work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "ay", string(got))
}

func TestCopy(t *testing.T) {
	files, fsys := newMemFiles(t)

	require.NoError(t, files.Copy("/work/b.txt", "/work/docs/b.txt"))
	got, err := afero.ReadFile(fsys, "/work/docs/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "bee", string(got))

	err = files.Copy("/work/missing.txt", "/work/docs/missing.txt")
	assert.True(t, IsNotFound(err))

	// destination already present
	require.Error(t, files.Copy("/work/a.txt", "/work/b.txt"))
}

func TestDelete(t *testing.T) {
	files, fsys := newMemFiles(t)

	require.NoError(t, files.Delete("/work/a.txt"))
	ok, err := afero.Exists(fsys, "/work/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, IsNotFound(files.Delete("/work/a.txt")))
}

func TestPermissionDeniedOnOsFs(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0000))

	_, err := New(nil).ReadBytes(path)
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, KindPermission, le.Kind)
}
