// Package memory is a process-local store with the same semantics as the
// postgres one. It backs local runs without a database and the tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"job_tracker/internal/models"
	"job_tracker/internal/storage"
)

type resumeKey struct {
	userID int64
	path   string
}

type Repo struct {
	mu sync.Mutex

	nextUserID   int64
	nextResumeID int64
	nextJobID    int64

	users       map[int64]models.User
	usersByMail map[string]int64
	resumes     map[int64]models.Resume
	resumePaths map[resumeKey]struct{}
	jobs        map[int64]models.Job
}

func New() *Repo {
	return &Repo{
		users:       make(map[int64]models.User),
		usersByMail: make(map[string]int64),
		resumes:     make(map[int64]models.Resume),
		resumePaths: make(map[resumeKey]struct{}),
		jobs:        make(map[int64]models.Job),
	}
}

func (r *Repo) Ping(context.Context) error {
	return nil
}

func (r *Repo) SaveUser(_ context.Context, email string, passHash []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.usersByMail[email]; ok {
		return 0, storage.ErrUserExists
	}

	r.nextUserID++
	u := models.User{
		ID:        r.nextUserID,
		Email:     email,
		PassHash:  append([]byte(nil), passHash...),
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	r.users[u.ID] = u
	r.usersByMail[email] = u.ID

	return u.ID, nil
}

func (r *Repo) User(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.usersByMail[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return r.users[id], nil
}

func (r *Repo) UserByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, nil
}

// SetActive flips the activity flag of a user.
func (r *Repo) SetActive(id int64, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.IsActive = active
		r.users[id] = u
	}
}

func (r *Repo) SaveResume(_ context.Context, userID int64, path string) (models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := resumeKey{userID: userID, path: path}
	if _, ok := r.resumePaths[key]; ok {
		return models.Resume{}, storage.ErrResumeExists
	}

	r.nextResumeID++
	res := models.Resume{
		ID:         r.nextResumeID,
		UserID:     userID,
		Path:       path,
		UploadedAt: time.Now().UTC(),
	}

	r.resumes[res.ID] = res
	r.resumePaths[key] = struct{}{}

	return res, nil
}

func (r *Repo) Resumes(_ context.Context, userID int64) ([]models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Resume, 0)
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	return out, nil
}

func (r *Repo) SaveJob(_ context.Context, job models.Job) (models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextJobID++
	job.ID = r.nextJobID
	r.jobs[job.ID] = job

	return job, nil
}

func (r *Repo) Jobs(_ context.Context, userID int64) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Job, 0)
	for _, j := range r.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	return out, nil
}

func (r *Repo) Job(_ context.Context, userID, id int64) (models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.UserID != userID {
		return models.Job{}, storage.ErrJobNotFound
	}

	return j, nil
}

func (r *Repo) UpdateJob(
	_ context.Context,
	userID, id int64,
	apply func(models.Job) (models.Job, error),
) (models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.jobs[id]
	if !ok || current.UserID != userID {
		return models.Job{}, storage.ErrJobNotFound
	}

	next, err := apply(current)
	if err != nil {
		return models.Job{}, err
	}

	next.ID = current.ID
	next.UserID = current.UserID
	r.jobs[id] = next

	return next, nil
}

func (r *Repo) DeleteJob(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok || j.UserID != userID {
		return storage.ErrJobNotFound
	}

	delete(r.jobs, id)

	return nil
}

func (r *Repo) Close() {}
