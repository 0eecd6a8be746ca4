package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/simplecdn/core/storage"
)

func newLocal(t *testing.T, opts ...storage.Option) *storage.Local {
	t.Helper()
	s, err := storage.NewLocal(t.TempDir(), opts...)
	require.NoError(t, err)
	return s
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		content := bytes.Repeat([]byte("0123456789abcdef"), storage.ChunkSize/8+3)

		rel, err := s.SaveFile(context.Background(), "img/2024", "big.png", bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, "img/2024/big.png", rel)

		got, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("root directory", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		rel, err := s.SaveFile(context.Background(), "", "a.gif", strings.NewReader("GIF89a"))
		require.NoError(t, err)
		assert.Equal(t, "a.gif", rel)
	})

	t.Run("overwrites existing", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "", "a.png", strings.NewReader("old content"))
		require.NoError(t, err)
		_, err = s.SaveFile(ctx, "", "a.png", strings.NewReader("new"))
		require.NoError(t, err)

		got, err := os.ReadFile(filepath.Join(s.Root(), "a.png"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("invalid directory", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, err := s.SaveFile(context.Background(), "../outside", "a.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("invalid filename", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		for _, name := range []string{"", ".", "..", "../a.png", "a/b.png"} {
			_, err := s.SaveFile(context.Background(), "", name, strings.NewReader("x"))
			assert.ErrorIs(t, err, storage.ErrInvalidPath, name)
		}

		_, err := s.SaveFile(context.Background(), "", "..", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrEmptyFilename)
	})

	t.Run("failed stream leaves no file", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "d", "a.png", strings.NewReader("original"))
		require.NoError(t, err)

		broken := io.MultiReader(strings.NewReader("partial"), errReader{errors.New("connection reset")})
		_, err = s.SaveFile(ctx, "d", "a.png", broken)
		require.Error(t, err)

		got, err := os.ReadFile(filepath.Join(s.Root(), "d", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, "original", string(got))

		entries, err := os.ReadDir(filepath.Join(s.Root(), "d"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("unexpected EOF is a failure", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, err := s.SaveFile(context.Background(), "", "a.png", errReader{io.ErrUnexpectedEOF})
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)

		_, statErr := os.Stat(filepath.Join(s.Root(), "a.png"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.SaveFile(ctx, "", "a.png", strings.NewReader("data"))
		require.ErrorIs(t, err, context.Canceled)

		entries, err := os.ReadDir(s.Root())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("directory in the way", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		require.NoError(t, s.MakeDir(context.Background(), "a.png"))

		_, err := s.SaveFile(context.Background(), "", "a.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidOperation)
	})
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("missing directory is empty", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		dirs, files, err := s.List("does/not/exist")
		require.NoError(t, err)
		assert.NotNil(t, dirs)
		assert.NotNil(t, files)
		assert.Empty(t, dirs)
		assert.Empty(t, files)
	})

	t.Run("sorted immediate children", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		require.NoError(t, s.MakeDir(ctx, "b"))
		require.NoError(t, s.MakeDir(ctx, "a/deep/nested"))
		_, err := s.SaveFile(ctx, "", "z.png", strings.NewReader("12345"))
		require.NoError(t, err)
		_, err = s.SaveFile(ctx, "", "c.pdf", strings.NewReader("%PDF-"))
		require.NoError(t, err)
		_, err = s.SaveFile(ctx, "a", "inner.gif", strings.NewReader("x"))
		require.NoError(t, err)

		dirs, files, err := s.List("")
		require.NoError(t, err)

		require.Len(t, dirs, 2)
		assert.Equal(t, storage.DirEntry{Name: "a", Path: "a"}, dirs[0])
		assert.Equal(t, storage.DirEntry{Name: "b", Path: "b"}, dirs[1])

		require.Len(t, files, 2)
		assert.Equal(t, "c.pdf", files[0].Name)
		assert.Equal(t, "z.png", files[1].Name)
		assert.Equal(t, int64(5), files[1].Size)
		assert.False(t, files[1].ModTime.IsZero())

		dirs, files, err = s.List("a")
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		assert.Equal(t, "a/deep", dirs[0].Path)
		require.Len(t, files, 1)
		assert.Equal(t, "a/inner.gif", files[0].Path)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, err := s.SaveFile(context.Background(), "", "a.png", strings.NewReader("x"))
		require.NoError(t, err)

		_, _, err = s.List("a.png")
		assert.ErrorIs(t, err, storage.ErrNotDirectory)
	})

	t.Run("traversal", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, _, err := s.List("../..")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})
}

func TestMakeDir(t *testing.T) {
	t.Parallel()

	t.Run("concurrent calls", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.MakeDir(context.Background(), "a/b/c")
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		info, err := os.Stat(filepath.Join(s.Root(), "a", "b", "c"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, err := s.SaveFile(context.Background(), "", "a.png", strings.NewReader("x"))
		require.NoError(t, err)

		assert.ErrorIs(t, s.MakeDir(context.Background(), "a.png"), storage.ErrNotDirectory)
	})

	t.Run("traversal", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		assert.ErrorIs(t, s.MakeDir(context.Background(), "../x"), storage.ErrInvalidPath)
	})
}

func TestDeletePath(t *testing.T) {
	t.Parallel()

	t.Run("root in every spelling", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		for _, p := range []string{"", ".", "./", "a/..", "/"} {
			ok, err := s.DeletePath(context.Background(), p)
			assert.False(t, ok, p)
			assert.ErrorIs(t, err, storage.ErrInvalidOperation, p)
		}
		_, err := os.Stat(s.Root())
		assert.NoError(t, err)
	})

	t.Run("populated directory", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "a/b", "x.png", strings.NewReader("x"))
		require.NoError(t, err)
		_, err = s.SaveFile(ctx, "a", "y.png", strings.NewReader("y"))
		require.NoError(t, err)

		ok, err := s.DeletePath(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)

		dirs, files, err := s.List("a")
		require.NoError(t, err)
		assert.Empty(t, dirs)
		assert.Empty(t, files)

		dirs, _, err = s.List("")
		require.NoError(t, err)
		assert.Empty(t, dirs)
	})

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "", "x.png", strings.NewReader("x"))
		require.NoError(t, err)

		ok, err := s.DeletePath(ctx, "x.png")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing target", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ok, err := s.DeletePath(context.Background(), "nope.png")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("traversal", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		_, err := s.DeletePath(context.Background(), "../x")
		assert.ErrorIs(t, err, storage.ErrInvalidPath)
	})

	t.Run("symlink is unlinked, target kept", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "real", "keep.png", strings.NewReader("keep"))
		require.NoError(t, err)
		require.NoError(t, os.Symlink(filepath.Join(s.Root(), "real"), filepath.Join(s.Root(), "alias")))

		ok, err := s.DeletePath(ctx, "alias")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = os.Lstat(filepath.Join(s.Root(), "alias"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.FileExists(t, filepath.Join(s.Root(), "real", "keep.png"))
	})

	t.Run("symlinked parent", func(t *testing.T) {
		t.Parallel()

		s := newLocal(t)
		ctx := context.Background()
		_, err := s.SaveFile(ctx, "real", "x.png", strings.NewReader("x"))
		require.NoError(t, err)
		require.NoError(t, os.Symlink(filepath.Join(s.Root(), "real"), filepath.Join(s.Root(), "alias")))

		ok, err := s.DeletePath(ctx, "alias/x.png")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoFileExists(t, filepath.Join(s.Root(), "real", "x.png"))
		assert.DirExists(t, filepath.Join(s.Root(), "real"))
	})
}

func TestPathUnderRegularFile(t *testing.T) {
	t.Parallel()

	s := newLocal(t)
	ctx := context.Background()
	_, err := s.SaveFile(ctx, "", "a.txt", strings.NewReader("plain"))
	require.NoError(t, err)

	dirs, files, err := s.List("a.txt/sub")
	require.NoError(t, err)
	assert.Empty(t, dirs)
	assert.Empty(t, files)

	_, _, err = s.Open("a.txt/sub")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Stat("a.txt/sub/deeper")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := s.DeletePath(ctx, "a.txt/sub")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.SaveFile(ctx, "a.txt", "x.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
	assert.ErrorIs(t, err, storage.ErrNotDirectory)

	_, err = s.SaveFile(ctx, "a.txt/sub", "x.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrInvalidPath)

	err = s.MakeDir(ctx, "a.txt/sub")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
	assert.ErrorIs(t, err, storage.ErrNotDirectory)

	got, err := os.ReadFile(filepath.Join(s.Root(), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s := newLocal(t)
	ctx := context.Background()
	_, err := s.SaveFile(ctx, "docs", "a.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)

	f, info, err := s.Open("docs/a.pdf")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "a.pdf", info.Name())
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))

	_, _, err = s.Open("docs")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = s.Open("missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Stat("missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	info, err = s.Stat("docs")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

type recordingObserver struct {
	mu      sync.Mutex
	ops     map[string]int
	errs    map[string]int
	uploads int64
}

func (o *recordingObserver) RecordOperation(op string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops[op]++
	if err != nil {
		o.errs[op]++
	}
}

func (o *recordingObserver) RecordUpload(_ time.Duration, size int64, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err == nil {
		o.uploads += size
	}
}

type recordingReplica struct {
	mu      sync.Mutex
	calls   []string
	failPut bool
}

func (r *recordingReplica) PutFile(_ context.Context, rel, localPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "put "+rel)
	if r.failPut {
		return errors.New("bucket unavailable")
	}
	return nil
}

func (r *recordingReplica) MakeDir(_ context.Context, rel string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "mkdir "+rel)
	return nil
}

func (r *recordingReplica) Delete(_ context.Context, rel string, isDir bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if isDir {
		r.calls = append(r.calls, "rmdir "+rel)
	} else {
		r.calls = append(r.calls, "rm "+rel)
	}
	return nil
}

func TestObserverAndReplica(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{ops: map[string]int{}, errs: map[string]int{}}
	rep := &recordingReplica{}
	s := newLocal(t, storage.WithObserver(obs), storage.WithReplica(rep))
	ctx := context.Background()

	require.NoError(t, s.MakeDir(ctx, "a"))
	_, err := s.SaveFile(ctx, "a", "x.png", strings.NewReader("12345"))
	require.NoError(t, err)
	_, err = s.DeletePath(ctx, "a/x.png")
	require.NoError(t, err)
	_, err = s.DeletePath(ctx, "a")
	require.NoError(t, err)
	_, _, err = s.List("../x")
	require.Error(t, err)

	assert.Equal(t, []string{"mkdir a", "put a/x.png", "rm a/x.png", "rmdir a"}, rep.calls)
	assert.Equal(t, int64(5), obs.uploads)
	assert.Equal(t, 1, obs.errs[storage.OpList])
	assert.Equal(t, 2, obs.ops[storage.OpDelete])

	t.Run("replica failure does not fail save", func(t *testing.T) {
		rep.failPut = true
		_, err := s.SaveFile(ctx, "", "y.png", strings.NewReader("y"))
		require.NoError(t, err)
		assert.Equal(t, 1, obs.errs["replica_"+storage.OpSave])
	})
}

func TestPing(t *testing.T) {
	t.Parallel()

	s := newLocal(t)
	require.NoError(t, s.Ping(context.Background()))

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, os.RemoveAll(s.Root()))
	assert.Error(t, s.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, newLocal(t).Ping(ctx), context.Canceled)
}
