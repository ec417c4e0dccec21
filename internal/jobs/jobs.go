package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/models"
	"job_tracker/internal/storage"
)

// Limits are in characters, matching the column widths.
const (
	MaxCompanyLength = 120
	MaxRoleLength    = 120
	MaxLinkLength    = 255
)

var (
	ErrNotFound      = errors.New("job not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidJob    = errors.New("invalid job")
)

type JobSaver interface {
	SaveJob(ctx context.Context, job models.Job) (models.Job, error)
	UpdateJob(ctx context.Context, userID, id int64, apply func(models.Job) (models.Job, error)) (models.Job, error)
	DeleteJob(ctx context.Context, userID, id int64) error
}

type JobProvider interface {
	Jobs(ctx context.Context, userID int64) ([]models.Job, error)
	Job(ctx context.Context, userID, id int64) (models.Job, error)
}

type Service struct {
	log      *slog.Logger
	saver    JobSaver
	provider JobProvider
	now      func() time.Time
}

func New(log *slog.Logger, saver JobSaver, provider JobProvider) *Service {
	return &Service{
		log:      log,
		saver:    saver,
		provider: provider,
		now:      time.Now,
	}
}

// ParseStatus maps a client-supplied status to a JobStatus.
func ParseStatus(s string) (models.JobStatus, error) {
	st, ok := models.ParseJobStatus(s)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidStatus, s)
	}

	return st, nil
}

// * Create stores a new job for the owner. An empty status becomes Applied and
// a missing applied_at becomes the current time.
func (s *Service) Create(ctx context.Context, ownerID int64, job models.Job) (models.Job, error) {
	const op = "jobs.Create"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("uid", ownerID),
	)

	job.ID = 0
	job.UserID = ownerID

	if job.Status == "" {
		job.Status = models.JobStatusApplied
	} else {
		st, err := ParseStatus(string(job.Status))
		if err != nil {
			return models.Job{}, fmt.Errorf("%s: %w", op, err)
		}
		job.Status = st
	}

	if job.AppliedAt == nil {
		now := s.now().UTC().Truncate(time.Microsecond)
		job.AppliedAt = &now
	}

	job = normalize(job)

	if err := check(job); err != nil {
		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.saver.SaveJob(ctx, job)
	if err != nil {
		log.Error("failed to save job", sl.Err(err))
		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("job created", slog.Int64("job_id", saved.ID))

	return saved, nil
}

func (s *Service) List(ctx context.Context, ownerID int64) ([]models.Job, error) {
	const op = "jobs.List"

	list, err := s.provider.Jobs(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list jobs", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if list == nil {
		list = []models.Job{}
	}

	return list, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (models.Job, error) {
	const op = "jobs.Get"

	job, err := s.provider.Job(ctx, ownerID, id)
	if err != nil {
		return models.Job{}, s.fail(op, err)
	}

	return job, nil
}

// * Update applies patch to the owner's job. The read and the write happen
// under one lock on the row.
func (s *Service) Update(ctx context.Context, ownerID, id int64, patch models.JobPatch) (models.Job, error) {
	const op = "jobs.Update"

	job, err := s.saver.UpdateJob(ctx, ownerID, id, func(current models.Job) (models.Job, error) {
		next := normalize(Merge(current, patch))
		if err := check(next); err != nil {
			return models.Job{}, err
		}
		return next, nil
	})
	if err != nil {
		return models.Job{}, s.fail(op, err)
	}

	s.log.Info("job updated",
		slog.String("op", op),
		slog.Int64("uid", ownerID),
		slog.Int64("job_id", id),
	)

	return job, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	const op = "jobs.Delete"

	if err := s.saver.DeleteJob(ctx, ownerID, id); err != nil {
		return s.fail(op, err)
	}

	s.log.Info("job deleted",
		slog.String("op", op),
		slog.Int64("uid", ownerID),
		slog.Int64("job_id", id),
	)

	return nil
}

// fail maps storage misses to ErrNotFound and logs anything unexpected.
func (s *Service) fail(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrJobNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, ErrInvalidJob), errors.Is(err, ErrInvalidStatus):
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Error("job store failure", slog.String("op", op), sl.Err(err))

	return fmt.Errorf("%s: %w", op, err)
}

// * Merge returns job with every non-nil field of patch applied. An empty
// link or notes clears the field.
func Merge(job models.Job, patch models.JobPatch) models.Job {
	if patch.Company != nil {
		job.Company = *patch.Company
	}
	if patch.Role != nil {
		job.Role = *patch.Role
	}
	if patch.Link != nil {
		job.Link = optional(*patch.Link)
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.AppliedAt != nil {
		at := *patch.AppliedAt
		job.AppliedAt = &at
	}
	if patch.Notes != nil {
		job.Notes = optional(*patch.Notes)
	}

	return job
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func normalize(job models.Job) models.Job {
	job.Company = strings.TrimSpace(job.Company)
	job.Role = strings.TrimSpace(job.Role)

	if job.Link != nil {
		job.Link = optional(strings.TrimSpace(*job.Link))
	}

	return job
}

func check(job models.Job) error {
	switch {
	case job.Company == "":
		return fmt.Errorf("%w: company is required", ErrInvalidJob)
	case utf8.RuneCountInString(job.Company) > MaxCompanyLength:
		return fmt.Errorf("%w: company is longer than %d", ErrInvalidJob, MaxCompanyLength)
	case job.Role == "":
		return fmt.Errorf("%w: role is required", ErrInvalidJob)
	case utf8.RuneCountInString(job.Role) > MaxRoleLength:
		return fmt.Errorf("%w: role is longer than %d", ErrInvalidJob, MaxRoleLength)
	case job.Link != nil && utf8.RuneCountInString(*job.Link) > MaxLinkLength:
		return fmt.Errorf("%w: link is longer than %d", ErrInvalidJob, MaxLinkLength)
	}

	if _, ok := models.ParseJobStatus(string(job.Status)); !ok {
		return fmt.Errorf("%w %q", ErrInvalidStatus, job.Status)
	}

	return nil
}
