package redirect

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratsh/internal/value"
)

func TestApplyOpenRedirectionWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	savedStdout, err := syscall.Dup(1)
	require.NoError(t, err)
	defer func() {
		_ = syscall.Dup2(savedStdout, 1)
		_ = syscall.Close(savedStdout)
	}()

	redirs := []*value.RedirectionValue{
		value.NewOpenRedirection(1, path, syscall.O_CREAT|syscall.O_WRONLY|syscall.O_TRUNC),
	}

	var collector FileDescriptionCollector
	var saver SavedFileDescriptions

	ok := Apply(redirs, &collector, &saver)
	require.True(t, ok)
	collector.Close()

	_, err = syscall.Write(1, []byte("hello\n"))
	require.NoError(t, err)

	saver.Restore()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(contents))
}

func TestApplyRestoresOriginalDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	savedStdout, err := syscall.Dup(1)
	require.NoError(t, err)
	require.NoError(t, syscall.Dup2(int(w.Fd()), 1))
	w.Close()
	defer func() {
		_ = syscall.Dup2(savedStdout, 1)
		_ = syscall.Close(savedStdout)
	}()

	redirs := []*value.RedirectionValue{
		value.NewOpenRedirection(1, path, syscall.O_CREAT|syscall.O_WRONLY|syscall.O_TRUNC),
	}
	var collector FileDescriptionCollector
	var saver SavedFileDescriptions
	require.True(t, Apply(redirs, &collector, &saver))
	collector.Close()
	saver.Restore()

	_, err = syscall.Write(1, []byte("back to the pipe\n"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "back to the pipe\n", string(buf[:n]))
}

func TestApplyCloseRedirection(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	dupFd, err := syscall.Dup(int(w.Fd()))
	require.NoError(t, err)

	redirs := []*value.RedirectionValue{
		value.NewCloseRedirection(dupFd),
	}
	var collector FileDescriptionCollector
	var saver SavedFileDescriptions
	require.True(t, Apply(redirs, &collector, &saver))
	collector.Close()

	_, err = syscall.Write(dupFd, []byte("x"))
	assert.Error(t, err, "fd should have been closed")

	saver.Restore()
}
