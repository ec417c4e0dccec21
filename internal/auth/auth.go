package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/lib/password"
	"job_tracker/internal/models"
	"job_tracker/internal/storage"
)

const (
	bearerScheme = "Bearer "

	PurposeAccountCreated = "account.created"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email taken")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	tokens      TokenManager
	publisher   Publisher
}

type UserSaver interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (uid int64, err error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type TokenManager interface {
	NewToken(userID int64) (string, error)
	Parse(token string) (int64, error)
}

type Publisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

// dummyHash is compared against when the email is unknown so that login
// latency does not reveal whether an account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := password.Hash("job-tracker-dummy-password")
	return h
})

// New builds the auth service. publisher may be nil.
func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	tokens TokenManager,
	publisher Publisher,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		tokens:      tokens,
		publisher:   publisher,
	}
}

// * Signup creates the account and returns an access token for it.
func (a *Auth) Signup(ctx context.Context, email, pass string) (string, error) {
	const op = "auth.Signup"

	log := a.log.With(
		slog.String("op", op),
	)

	log.Info("registering new user")

	passHash, err := password.Hash(pass)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			log.Info("password too long")
			return "", fmt.Errorf("%s: %w", op, err)
		}

		log.Error("failed to generate password hash", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		log.Error("failed to save user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	a.publish(ctx, log, models.Message{
		Email:   email,
		UserID:  id,
		Purpose: PurposeAccountCreated,
		SentAt:  time.Now().UTC(),
	})

	token, err := a.tokens.NewToken(id)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("uid", id))

	return token, nil
}

// * Login checks credentials and returns a fresh access token.
func (a *Auth) Login(ctx context.Context, email, pass string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.User(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			password.Verify(pass, dummyHash())

			log.Info("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		log.Error("failed to get user", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !password.Verify(pass, user.PassHash) {
		log.Info("invalid password", slog.Int64("uid", user.ID))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if !user.IsActive {
		log.Info("inactive user", slog.Int64("uid", user.ID))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := a.tokens.NewToken(user.ID)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.Int64("uid", user.ID))

	return token, nil
}

// * Authenticate resolves an Authorization header to an active user.
// Every token or lookup failure is reported as ErrUnauthenticated; only
// storage outages come back as other errors.
func (a *Auth) Authenticate(ctx context.Context, header string) (models.User, error) {
	const op = "auth.Authenticate"

	log := a.log.With(slog.String("op", op))

	if len(header) <= len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	uid, err := a.tokens.Parse(token)
	if err != nil {
		log.Debug("token rejected", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	user, err := a.usrProvider.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("token subject not found", slog.Int64("uid", uid))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
		}

		log.Error("failed to load user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		log.Info("inactive user", slog.Int64("uid", uid))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return user, nil
}

func (a *Auth) publish(ctx context.Context, log *slog.Logger, msg models.Message) {
	if a.publisher == nil {
		return
	}

	if err := a.publisher.SendMessage(ctx, msg); err != nil {
		log.Warn("failed to publish account event", sl.Err(err))
	}
}
