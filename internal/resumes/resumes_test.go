package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"job_tracker/internal/blob"
	"job_tracker/internal/models"
	"job_tracker/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

const testMax = 64

func newService(t *testing.T) (*Service, *memory.Repo, *blob.Local) {
	t.Helper()

	repo := memory.New()
	store, err := blob.NewLocal(t.TempDir())
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(log, repo, repo, store, testMax, []string{"pdf", ".TXT"}), repo, store
}

func countFiles(t *testing.T, root string) int {
	t.Helper()

	n := 0
	err := filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)

	return n
}

func TestUploadAcceptsAllowedTypes(t *testing.T) {
	svc, _, store := newService(t)

	for _, name := range []string{"cv.pdf", "CV.PDF", "notes.txt", "Resume.Txt"} {
		res, err := svc.Upload(context.Background(), 1, name, 5, strings.NewReader("hello"))
		require.NoError(t, err, name)
		require.Equal(t, int64(1), res.UserID)
		require.True(t, strings.HasPrefix(res.Path, "1/"))
		require.Equal(t, filepath.Ext(name), filepath.Ext(res.Path))
	}

	require.Equal(t, 4, countFiles(t, store.Root()))
}

func TestUploadRejectsType(t *testing.T) {
	svc, repo, store := newService(t)

	for _, name := range []string{"cv.docx", "cv", "pdf", "cv.", "archive.pdf.exe"} {
		_, err := svc.Upload(context.Background(), 1, name, 5, strings.NewReader("hello"))
		require.ErrorIs(t, err, ErrUnsupportedType, name)
	}

	list, err := repo.Resumes(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Zero(t, countFiles(t, store.Root()))
}

func TestUploadRejectsDeclaredSize(t *testing.T) {
	svc, _, store := newService(t)

	_, err := svc.Upload(context.Background(), 1, "cv.pdf", testMax+1, bytes.NewReader(make([]byte, testMax+1)))
	require.ErrorIs(t, err, ErrFileTooLarge)
	require.Zero(t, countFiles(t, store.Root()))
}

func TestUploadRejectsOversizeStream(t *testing.T) {
	svc, repo, store := newService(t)

	// size unknown, stream is one byte over
	_, err := svc.Upload(context.Background(), 1, "cv.pdf", -1, bytes.NewReader(make([]byte, testMax+1)))
	require.ErrorIs(t, err, ErrFileTooLarge)

	list, err := repo.Resumes(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, list)
	require.Zero(t, countFiles(t, store.Root()))
}

func TestUploadExactMax(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Upload(context.Background(), 1, "cv.pdf", testMax, bytes.NewReader(make([]byte, testMax)))
	require.NoError(t, err)
}

type failingSaver struct{ err error }

func (f failingSaver) SaveResume(context.Context, int64, string) (models.Resume, error) {
	return models.Resume{}, f.err
}

func TestUploadRemovesFileWhenSaveFails(t *testing.T) {
	store, err := blob.NewLocal(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("db down")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(log, failingSaver{err: boom}, memory.New(), store, testMax, []string{"pdf"})

	_, err = svc.Upload(context.Background(), 1, "cv.pdf", 3, strings.NewReader("abc"))
	require.ErrorIs(t, err, boom)
	require.Zero(t, countFiles(t, store.Root()))
}

func TestListScopedToOwner(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, 1, "a.pdf", 1, strings.NewReader("a"))
	require.NoError(t, err)
	second, err := svc.Upload(ctx, 1, "b.txt", 1, strings.NewReader("b"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, 2, "c.pdf", 1, strings.NewReader("c"))
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	empty, err := svc.List(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
