package lockfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	lock, err := Acquire(dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, LockFileName))

	require.NoError(t, lock.Release())
	assert.NoFileExists(t, filepath.Join(dir, LockFileName))

	// Release is idempotent.
	require.NoError(t, lock.Release())
}

func TestAcquire_ReapsStaleLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)

	// A PID that (almost certainly) does not correspond to a live process.
	require.NoError(t, os.WriteFile(path, []byte("999999"), 0600))

	lock, err := Acquire(dir)
	require.NoError(t, err)
	defer lock.Release()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	gotPID, err := strconv.Atoi(string(data))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), gotPID)
}

func TestAcquire_TimesOutWhenHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockFileName)
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600))

	_, err := Acquire(dir)
	require.Error(t, err)
}
