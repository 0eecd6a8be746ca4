package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/simplecdn/core/logger"
)

// ChunkSize is the read size used when streaming uploads to disk.
const ChunkSize = 1 << 20

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, ChunkSize)
		return &b
	},
}

// DirEntry is a subdirectory in a listing.
type DirEntry struct {
	Name string
	Path string
}

// FileEntry is a non-directory entry in a listing.
type FileEntry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Local stores files on the local filesystem under a single root.
type Local struct {
	*Resolver
	logger   *slog.Logger
	observer Observer
	replica  Replica
}

// Option configures Local.
type Option func(*Local)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Local) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver sets the telemetry observer.
func WithObserver(o Observer) Option {
	return func(s *Local) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithReplica mirrors successful mutations to r.
func WithReplica(r Replica) Option {
	return func(s *Local) {
		s.replica = r
	}
}

// NewLocal creates the root if missing and returns a Local bound to it.
func NewLocal(root string, opts ...Option) (*Local, error) {
	resolver, err := NewResolver(root)
	if err != nil {
		return nil, err
	}

	s := &Local{
		Resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns the immediate children of rel sorted by name. A missing
// directory yields empty results.
func (s *Local) List(rel string) (dirs []DirEntry, files []FileEntry, err error) {
	defer s.observe(OpList, time.Now(), &err)

	dirs, files = []DirEntry{}, []FileEntry{}

	abs, err := s.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	info, err := os.Stat(abs)
	if isNotExist(err) {
		return dirs, files, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("stat %q: %w", rel, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotDirectory, rel)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("read dir %q: %w", rel, err)
	}

	for _, entry := range entries {
		childAbs := filepath.Join(abs, entry.Name())
		childRel := s.Rel(childAbs)

		// Follows symlinks so a link to a directory lists as a directory.
		childInfo, err := os.Stat(childAbs)
		if err != nil {
			s.logger.Debug("skipping unreadable entry",
				logger.Component("storage"),
				logger.FilePath(childRel),
				logger.Error(err),
			)
			continue
		}

		if childInfo.IsDir() {
			dirs = append(dirs, DirEntry{Name: entry.Name(), Path: childRel})
			continue
		}
		files = append(files, FileEntry{
			Name:    entry.Name(),
			Path:    childRel,
			Size:    childInfo.Size(),
			ModTime: childInfo.ModTime(),
		})
	}

	return dirs, files, nil
}

// MakeDir creates rel and any missing parents. Existing directories are not an error.
func (s *Local) MakeDir(ctx context.Context, rel string) (err error) {
	defer s.observe(OpMkdir, time.Now(), &err)

	abs, err := s.Resolve(rel)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPath, ErrNotDirectory, rel)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return mkdirError(rel, err)
	}

	s.logger.InfoContext(ctx, "directory created",
		logger.Component("storage"),
		logger.FilePath(s.Rel(abs)),
	)

	if s.replica != nil && abs != s.Root() {
		s.replicate(ctx, OpMkdir, s.Rel(abs), func(ctx context.Context) error {
			return s.replica.MakeDir(ctx, s.Rel(abs))
		})
	}
	return nil
}

// SaveFile streams r into relDir/filename and returns the root-relative path
// of the written file. The content lands in a temporary file first and is
// renamed over the destination once fully written and synced; on any error,
// including ctx cancellation, the temporary file is removed and the
// destination is untouched.
func (s *Local) SaveFile(ctx context.Context, relDir, filename string, r io.Reader) (rel string, err error) {
	start := time.Now()
	var written int64
	defer func() { s.observer.RecordUpload(time.Since(start), written, err) }()

	switch {
	case strings.Trim(filename, ".") == "":
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, ErrEmptyFilename)
	case filepath.Base(filename) != filename || strings.ContainsRune(filename, '/'):
		return "", fmt.Errorf("%w: filename %q", ErrInvalidPath, filename)
	}

	dirAbs, err := s.Resolve(relDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dirAbs, 0o755); err != nil {
		return "", mkdirError(relDir, err)
	}

	dest, err := s.Resolve(relDir, filename)
	if err != nil {
		return "", err
	}
	if info, statErr := os.Stat(dest); statErr == nil && info.IsDir() {
		return "", fmt.Errorf("%w: %q is a directory", ErrInvalidOperation, s.Rel(dest))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bufp := chunkPool.Get().(*[]byte)
	written, err = copyChunks(ctx, tmp, r, *bufp)
	chunkPool.Put(bufp)
	if err != nil {
		return "", fmt.Errorf("write %q: %w", s.Rel(dest), err)
	}

	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync %q: %w", s.Rel(dest), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", s.Rel(dest), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("chmod %q: %w", s.Rel(dest), err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("rename %q: %w", s.Rel(dest), err)
	}
	committed = true

	rel = s.Rel(dest)
	s.logger.InfoContext(ctx, "file saved",
		logger.Component("storage"),
		logger.FilePath(rel),
		logger.Size(written),
		logger.Duration(time.Since(start)),
	)

	if s.replica != nil {
		s.replicate(ctx, OpSave, rel, func(ctx context.Context) error {
			return s.replica.PutFile(ctx, rel, dest)
		})
	}
	return rel, nil
}

// DeletePath removes the file or directory tree at rel. It reports false
// when nothing exists there. The root itself cannot be deleted.
func (s *Local) DeletePath(ctx context.Context, rel string) (deleted bool, err error) {
	defer s.observe(OpDelete, time.Now(), &err)

	canonical, err := s.Resolve(rel)
	if err != nil {
		return false, err
	}
	if canonical == s.Root() {
		return false, fmt.Errorf("%w: cannot delete storage root", ErrInvalidOperation)
	}

	// The last component is removed itself, so a symlink is unlinked rather
	// than its target deleted.
	parent, name := filepath.Split(filepath.Join(string(filepath.Separator), filepath.FromSlash(rel)))
	parentAbs, err := s.Resolve(parent)
	if err != nil {
		return false, err
	}
	abs := filepath.Join(parentAbs, name)
	if abs == s.Root() || name == "" {
		return false, fmt.Errorf("%w: cannot delete storage root", ErrInvalidOperation)
	}

	info, err := os.Lstat(abs)
	if isNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", rel, err)
	}

	if info.IsDir() {
		err = os.RemoveAll(abs)
	} else {
		err = os.Remove(abs)
	}
	if err != nil {
		return false, fmt.Errorf("delete %q: %w", rel, err)
	}

	relPath := s.Rel(abs)
	s.logger.InfoContext(ctx, "path deleted",
		logger.Component("storage"),
		logger.FilePath(relPath),
		slog.Bool("dir", info.IsDir()),
	)

	if s.replica != nil {
		s.replicate(ctx, OpDelete, relPath, func(ctx context.Context) error {
			return s.replica.Delete(ctx, relPath, info.IsDir())
		})
	}
	return true, nil
}

// Open opens the regular file at rel for reading. Missing paths and
// directories yield ErrNotFound. The caller closes the file.
func (s *Local) Open(rel string) (f *os.File, info fs.FileInfo, err error) {
	defer s.observe(OpOpen, time.Now(), &err)

	abs, err := s.Resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	f, err = os.Open(abs)
	if isNotExist(err) {
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, rel)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", rel, err)
	}

	info, err = f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat %q: %w", rel, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %q", ErrNotFound, rel)
	}
	return f, info, nil
}

// Stat returns file info for rel, or ErrNotFound.
func (s *Local) Stat(rel string) (fs.FileInfo, error) {
	abs, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if isNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", rel, err)
	}
	return info, nil
}

func (s *Local) observe(op string, start time.Time, err *error) {
	s.observer.RecordOperation(op, time.Since(start), *err)
}

// replicate runs fn detached from request cancellation so a client that
// disconnects after a successful write does not skip the replica.
func (s *Local) replicate(ctx context.Context, op, rel string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	err := fn(ctx)
	s.observer.RecordOperation("replica_"+op, time.Since(start), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "replica update failed",
			logger.Component("storage"),
			logger.Action(op),
			logger.FilePath(rel),
			logger.Error(err),
		)
	}
}

// copyChunks copies src to dst in len(buf)-sized chunks, checking ctx
// between chunks. Only io.EOF ends the copy successfully.
func copyChunks(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n := 0
		var rerr error
		for n < len(buf) && rerr == nil {
			var m int
			m, rerr = src.Read(buf[n:])
			n += m
		}

		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
		}

		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// Ping reports whether the root is still a writable directory.
func (s *Local) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.Root(), ".ping-*")
	if err != nil {
		return fmt.Errorf("storage root not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// mkdirError reports a directory that cannot be created because a regular
// file sits on its path as an invalid path.
func mkdirError(rel string, err error) error {
	if errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.EEXIST) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPath, ErrNotDirectory, rel)
	}
	return fmt.Errorf("mkdir %q: %w", rel, err)
}
