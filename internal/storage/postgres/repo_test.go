package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"job_tracker/internal/models"
	"job_tracker/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var (
	userColumns = []string{"id", "email", "password_hash", "role", "is_active", "created_at"}
	jobCols     = []string{"id", "user_id", "company", "role", "link", "status", "applied_at", "notes"}
)

const (
	ownerID = int64(2)
	jobID   = int64(5)
)

func newMockRepo(t *testing.T) (*PostgresRepo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewWithDB(mock), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func jobRow(rows *pgxmock.Rows, id, userID int64, company string) *pgxmock.Rows {
	link := "https://acme.example/jobs/1"
	notes := "referral"
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return rows.AddRow(id, userID, company, "Dev", &link, "Applied", &at, &notes)
}

func TestSaveUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("a@example.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.SaveUser(context.Background(), "a@example.com", []byte("hash"))
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("a@example.com", "hash").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.SaveUser(context.Background(), "a@example.com", []byte("hash"))
	require.ErrorIs(t, err, storage.ErrUserExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserOtherError(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("a@example.com", "hash").
		WillReturnError(boom)

	_, err := repo.SaveUser(context.Background(), "a@example.com", []byte("hash"))
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, storage.ErrUserExists)
}

func TestUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "a@example.com", "hash", "user", true, created))

	u, err := repo.User(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, []byte("hash"), u.PassHash)
	require.Equal(t, models.RoleUser, u.Role)
	require.True(t, u.IsActive)

	mock.ExpectQuery(q("WHERE email = $1")).
		WithArgs("b@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err = repo.User(context.Background(), "b@example.com")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.UserByID(context.Background(), 9)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResumeDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("INSERT INTO resumes")).
		WithArgs(ownerID, "2/a.pdf").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.SaveResume(context.Background(), ownerID, "2/a.pdf")
	require.ErrorIs(t, err, storage.ErrResumeExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResumesFilteredByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q("WHERE user_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "path", "uploaded_at"}).
			AddRow(int64(3), ownerID, "2/b.pdf", at).
			AddRow(int64(1), ownerID, "2/a.pdf", at))

	list, err := repo.Resumes(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(3), list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobsFilteredByOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("WHERE user_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(jobRow(pgxmock.NewRows(jobCols), jobID, ownerID, "Acme"))

	list, err := repo.Jobs(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.JobStatusApplied, list[0].Status)
	require.Equal(t, "referral", *list[0].Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJob(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q("WHERE id = $1 AND user_id = $2")).
		WithArgs(jobID, ownerID).
		WillReturnRows(jobRow(pgxmock.NewRows(jobCols), jobID, ownerID, "Acme"))

	job, err := repo.Job(context.Background(), ownerID, jobID)
	require.NoError(t, err)
	require.Equal(t, "Acme", job.Company)
	require.Equal(t, ownerID, job.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJobNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	// the row exists for another owner, so the filtered query finds nothing
	mock.ExpectQuery(q("WHERE id = $1 AND user_id = $2")).
		WithArgs(jobID, int64(3)).
		WillReturnRows(pgxmock.NewRows(jobCols))

	_, err := repo.Job(context.Background(), 3, jobID)
	require.ErrorIs(t, err, storage.ErrJobNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJob(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs(jobID, ownerID).
		WillReturnRows(jobRow(pgxmock.NewRows(jobCols), jobID, ownerID, "Acme"))
	mock.ExpectQuery(q("UPDATE jobs")).
		WithArgs(jobID, ownerID, "Acme Corp", pgxmock.AnyArg(), pgxmock.AnyArg(), "Offer", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(jobRow(pgxmock.NewRows(jobCols), jobID, ownerID, "Acme Corp"))
	mock.ExpectCommit()

	var seen models.Job
	job, err := repo.UpdateJob(context.Background(), ownerID, jobID, func(cur models.Job) (models.Job, error) {
		seen = cur
		cur.Company = "Acme Corp"
		cur.Status = models.JobStatusOffer
		return cur, nil
	})
	require.NoError(t, err)
	require.Equal(t, "Acme", seen.Company)
	require.Equal(t, "Acme Corp", job.Company)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs(jobID, int64(3)).
		WillReturnRows(pgxmock.NewRows(jobCols))
	mock.ExpectRollback()

	called := false
	_, err := repo.UpdateJob(context.Background(), 3, jobID, func(cur models.Job) (models.Job, error) {
		called = true
		return cur, nil
	})
	require.ErrorIs(t, err, storage.ErrJobNotFound)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobApplyError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs(jobID, ownerID).
		WillReturnRows(jobRow(pgxmock.NewRows(jobCols), jobID, ownerID, "Acme"))
	mock.ExpectRollback()

	invalid := errors.New("invalid job")
	_, err := repo.UpdateJob(context.Background(), ownerID, jobID, func(models.Job) (models.Job, error) {
		return models.Job{}, invalid
	})
	require.ErrorIs(t, err, invalid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteJob(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q("DELETE FROM jobs WHERE id = $1 AND user_id = $2")).
		WithArgs(jobID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteJob(context.Background(), ownerID, jobID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteJobNotOwned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q("DELETE FROM jobs WHERE id = $1 AND user_id = $2")).
		WithArgs(jobID, int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.ErrorIs(t, repo.DeleteJob(context.Background(), 3, jobID), storage.ErrJobNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWithoutPool(t *testing.T) {
	repo, _ := newMockRepo(t)

	require.Error(t, repo.Migrate(context.Background()))
}
