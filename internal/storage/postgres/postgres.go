package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job_tracker/internal/config"
	"job_tracker/internal/models"
	"job_tracker/internal/storage"
	"job_tracker/internal/storage/postgres/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repository queries through.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type PostgresRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool, db: pool}, nil
}

// NewWithDB builds a repository over db. Migrate is unavailable unless db is
// a *pgxpool.Pool.
func NewWithDB(db DB) *PostgresRepo {
	pool, _ := db.(*pgxpool.Pool)

	return &PostgresRepo{pool: pool, db: db}
}

// * Migrate applies the embedded goose migrations.
func (r *PostgresRepo) Migrate(ctx context.Context) error {
	const op = "storage.postgres.Migrate"

	if r.pool == nil {
		return fmt.Errorf("%s: no connection pool", op)
	}

	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepo) SaveUser(ctx context.Context, email string, passHash []byte) (int64, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id;
	`

	var id int64

	err := r.db.QueryRow(ctx, query, email, string(passHash)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, storage.ErrUserExists
		}

		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) User(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.User"

	query := `
		SELECT id, email, password_hash, role, is_active, created_at
		FROM users
		WHERE email = $1;
	`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
		SELECT id, email, password_hash, role, is_active, created_at
		FROM users
		WHERE id = $1;
	`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) SaveResume(ctx context.Context, userID int64, path string) (models.Resume, error) {
	const op = "storage.postgres.SaveResume"

	query := `
		INSERT INTO resumes (user_id, path)
		VALUES ($1, $2)
		RETURNING id, user_id, path, uploaded_at;
	`

	var res models.Resume

	err := r.db.QueryRow(ctx, query, userID, path).Scan(&res.ID, &res.UserID, &res.Path, &res.UploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Resume{}, storage.ErrResumeExists
		}

		return models.Resume{}, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (r *PostgresRepo) Resumes(ctx context.Context, userID int64) ([]models.Resume, error) {
	const op = "storage.postgres.Resumes"

	query := `
		SELECT id, user_id, path, uploaded_at
		FROM resumes
		WHERE user_id = $1
		ORDER BY uploaded_at DESC, id DESC;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resumes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Resume, error) {
		var res models.Resume
		err := row.Scan(&res.ID, &res.UserID, &res.Path, &res.UploadedAt)
		return res, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resumes, nil
}

func (r *PostgresRepo) SaveJob(ctx context.Context, job models.Job) (models.Job, error) {
	const op = "storage.postgres.SaveJob"

	query := `
		INSERT INTO jobs (user_id, company, role, link, status, applied_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + jobColumns + `;`

	saved, err := scanJob(r.db.QueryRow(ctx, query,
		job.UserID,
		job.Company,
		job.Role,
		job.Link,
		string(job.Status),
		job.AppliedAt,
		job.Notes,
	))
	if err != nil {
		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	return saved, nil
}

func (r *PostgresRepo) Jobs(ctx context.Context, userID int64) ([]models.Job, error) {
	const op = "storage.postgres.Jobs"

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE user_id = $1
		ORDER BY id DESC;
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Job, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return jobs, nil
}

func (r *PostgresRepo) Job(ctx context.Context, userID, id int64) (models.Job, error) {
	const op = "storage.postgres.Job"

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE id = $1 AND user_id = $2;
	`

	job, err := scanJob(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Job{}, storage.ErrJobNotFound
		}

		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	return job, nil
}

// * UpdateJob locks the owner's row, passes it to apply and stores the result.
func (r *PostgresRepo) UpdateJob(
	ctx context.Context,
	userID, id int64,
	apply func(models.Job) (models.Job, error),
) (models.Job, error) {
	const op = "storage.postgres.UpdateJob"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Job{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanJob(tx.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = $1 AND user_id = $2
		FOR UPDATE;
	`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Job{}, storage.ErrJobNotFound
		}

		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	next, err := apply(current)
	if err != nil {
		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := scanJob(tx.QueryRow(ctx, `
		UPDATE jobs
		SET company = $3, role = $4, link = $5, status = $6, applied_at = $7, notes = $8
		WHERE id = $1 AND user_id = $2
		RETURNING `+jobColumns+`;
	`,
		id,
		userID,
		next.Company,
		next.Role,
		next.Link,
		string(next.Status),
		next.AppliedAt,
		next.Notes,
	))
	if err != nil {
		return models.Job{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Job{}, fmt.Errorf("%s: commit: %w", op, err)
	}

	return updated, nil
}

func (r *PostgresRepo) DeleteJob(ctx context.Context, userID, id int64) error {
	const op = "storage.postgres.DeleteJob"

	query := `DELETE FROM jobs WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrJobNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.db.Close()
}

const jobColumns = `id, user_id, company, role, link, status, applied_at, notes`

func scanUser(row pgx.Row) (models.User, error) {
	var (
		u    models.User
		hash string
		role string
	)

	err := row.Scan(&u.ID, &u.Email, &hash, &role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return models.User{}, err
	}

	u.PassHash = []byte(hash)
	u.Role = models.Role(role)

	return u, nil
}

func scanJob(row pgx.Row) (models.Job, error) {
	var (
		j      models.Job
		status string
	)

	err := row.Scan(&j.ID, &j.UserID, &j.Company, &j.Role, &j.Link, &status, &j.AppliedAt, &j.Notes)
	if err != nil {
		return models.Job{}, err
	}

	j.Status = models.JobStatus(status)

	return j, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// * dsn builds the connection string from config.
func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
