package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"job_tracker/internal/blob"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/models"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

type ResumeSaver interface {
	SaveResume(ctx context.Context, userID int64, path string) (models.Resume, error)
}

type ResumeProvider interface {
	Resumes(ctx context.Context, userID int64) ([]models.Resume, error)
}

type Service struct {
	log      *slog.Logger
	saver    ResumeSaver
	provider ResumeProvider
	blobs    blob.Store
	maxSize  int64
	allowed  map[string]struct{}
}

// New builds the resume service. allowedExt entries are matched without the
// leading dot and case-insensitively.
func New(
	log *slog.Logger,
	saver ResumeSaver,
	provider ResumeProvider,
	blobs blob.Store,
	maxSize int64,
	allowedExt []string,
) *Service {
	allowed := make(map[string]struct{}, len(allowedExt))
	for _, ext := range allowedExt {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}

	return &Service{
		log:      log,
		saver:    saver,
		provider: provider,
		blobs:    blobs,
		maxSize:  maxSize,
		allowed:  allowed,
	}
}

func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// * Upload stores the file and records it for the owner. size is the size the
// client declared, negative when unknown; the stream itself is still capped.
func (s *Service) Upload(ctx context.Context, ownerID int64, filename string, size int64, r io.Reader) (models.Resume, error) {
	const op = "resumes.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("uid", ownerID),
	)

	ext := filepath.Ext(filename)
	if !s.isAllowed(ext) {
		log.Info("unsupported file type", slog.String("ext", ext))
		return models.Resume{}, fmt.Errorf("%s: %w", op, ErrUnsupportedType)
	}

	if size > s.maxSize {
		log.Info("file too large", slog.Int64("size", size))
		return models.Resume{}, fmt.Errorf("%s: %w", op, ErrFileTooLarge)
	}

	locator, err := s.blobs.Put(ctx, ownerID, ext, r, s.maxSize)
	if err != nil {
		if errors.Is(err, blob.ErrTooLarge) {
			log.Info("file too large")
			return models.Resume{}, fmt.Errorf("%s: %w", op, ErrFileTooLarge)
		}

		log.Error("failed to store file", sl.Err(err))
		return models.Resume{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.saver.SaveResume(ctx, ownerID, locator)
	if err != nil {
		log.Error("failed to save resume", sl.Err(err))

		if derr := s.blobs.Delete(context.WithoutCancel(ctx), locator); derr != nil {
			log.Error("failed to remove orphaned file", slog.String("path", locator), sl.Err(derr))
		}

		return models.Resume{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("resume uploaded", slog.Int64("resume_id", res.ID))

	return res, nil
}

// * List returns the owner's resumes, newest first.
func (s *Service) List(ctx context.Context, ownerID int64) ([]models.Resume, error) {
	const op = "resumes.List"

	list, err := s.provider.Resumes(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list resumes", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if list == nil {
		list = []models.Resume{}
	}

	return list, nil
}

func (s *Service) isAllowed(ext string) bool {
	if len(ext) < 2 {
		return false
	}

	_, ok := s.allowed[strings.ToLower(ext[1:])]
	return ok
}
