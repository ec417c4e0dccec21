// Package blob stores uploaded files. A stored file is addressed by an opaque
// locator of the form "<owner id>/<random name><ext>".
package blob

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/google/uuid"
)

var (
	ErrTooLarge   = errors.New("blob exceeds size limit")
	ErrBadLocator = errors.New("bad blob locator")
)

type Store interface {
	// Put stores at most limit bytes from r under the owner's prefix and
	// returns the locator. Nothing is kept when r yields more than limit bytes.
	Put(ctx context.Context, ownerID int64, ext string, r io.Reader, limit int64) (string, error)
	Delete(ctx context.Context, locator string) error
}

func newName(ext string) string {
	return uuid.New().String() + ext
}

func ownerPrefix(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}
