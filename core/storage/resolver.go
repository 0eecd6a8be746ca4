package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// Resolver maps root-relative paths to confined absolute paths.
type Resolver struct {
	root string
}

// NewResolver creates the root directory if needed and canonicalizes it.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty storage root", ErrInvalidPath)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins segments onto the root and returns the canonical absolute
// path. Absolute segments are treated as relative to the root. The result
// is the root itself or a path nested under it; anything else fails with
// ErrInvalidPath.
func (r *Resolver) Resolve(segments ...string) (string, error) {
	for _, s := range segments {
		if strings.IndexByte(s, 0) >= 0 {
			return "", fmt.Errorf("%w: NUL byte in path", ErrInvalidPath)
		}
	}

	joined := filepath.Join(append([]string{r.root}, segments...)...)
	if !r.contains(joined) {
		return "", fmt.Errorf("%w: %q escapes storage root", ErrInvalidPath, filepath.Join(segments...))
	}

	canonical, err := canonicalize(joined)
	if err != nil {
		return "", err
	}
	if !r.contains(canonical) {
		return "", fmt.Errorf("%w: %q resolves outside storage root", ErrInvalidPath, filepath.Join(segments...))
	}
	return canonical, nil
}

// Rel converts a confined absolute path back to a root-relative path with
// forward slashes. The root itself is "".
func (r *Resolver) Rel(abs string) string {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (r *Resolver) contains(p string) bool {
	return p == r.root || strings.HasPrefix(p, r.root+string(filepath.Separator))
}

// canonicalize evaluates symlinks on the longest existing ancestor of p and
// appends the missing tail unchanged. A dangling symlink on the way is
// rejected because writing through it would create its target.
func canonicalize(p string) (string, error) {
	existing := p
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !isNotExist(err) {
			return "", fmt.Errorf("stat %q: %w", existing, err)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return p, nil
		}
		tail = append(tail, filepath.Base(existing))
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		if isNotExist(err) {
			return "", fmt.Errorf("%w: dangling symlink", ErrInvalidPath)
		}
		return "", fmt.Errorf("resolve %q: %w", existing, err)
	}

	for i := len(tail) - 1; i >= 0; i-- {
		resolved = filepath.Join(resolved, tail[i])
	}
	return resolved, nil
}

// isNotExist also treats ENOTDIR as missing: a path nested under a regular
// file cannot exist.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
