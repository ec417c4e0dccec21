package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local keeps blobs on the filesystem, one directory per owner.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	const op = "blob.NewLocal"

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return nil, fmt.Errorf("%s: mkdir %s: %w", op, abs, err)
	}

	return &Local{root: abs}, nil
}

func (s *Local) Root() string {
	return s.root
}

// Put writes into a temp file in the owner directory and renames it into
// place once every byte is on disk.
func (s *Local) Put(ctx context.Context, ownerID int64, ext string, r io.Reader, limit int64) (locator string, err error) {
	const op = "blob.Local.Put"

	prefix := ownerPrefix(ownerID)
	dir := filepath.Join(s.root, prefix)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("%s: mkdir %s: %w", op, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("%s: write: %w", op, err)
	}

	if n > limit {
		return "", ErrTooLarge
	}

	if err = tmp.Sync(); err != nil {
		return "", fmt.Errorf("%s: sync: %w", op, err)
	}

	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: close: %w", op, err)
	}

	if err = ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name := newName(ext)

	if err = os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("%s: rename: %w", op, err)
	}

	return path.Join(prefix, name), nil
}

func (s *Local) Delete(_ context.Context, locator string) error {
	const op = "blob.Local.Delete"

	p, err := s.resolve(locator)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// resolve maps a locator to a path inside root.
func (s *Local) resolve(locator string) (string, error) {
	clean := path.Clean("/" + locator)
	if clean == "/" || strings.Contains(locator, "..") {
		return "", ErrBadLocator
	}

	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
