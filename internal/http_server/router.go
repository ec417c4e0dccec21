package http_server

import (
	"log/slog"
	"net/http"

	"job_tracker/internal/http_server/handlers/health"
	jobsh "job_tracker/internal/http_server/handlers/jobs"
	"job_tracker/internal/http_server/handlers/login"
	resumesh "job_tracker/internal/http_server/handlers/resumes"
	"job_tracker/internal/http_server/handlers/signup"
	"job_tracker/internal/middleware/authn"
	rateLimit "job_tracker/internal/middleware/ratelimit"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthService interface {
	signup.Signer
	login.LoginProvider
	authn.Authenticator
}

type ResumeService interface {
	resumesh.Uploader
	resumesh.Lister
}

type Deps struct {
	Log       *slog.Logger
	Auth      AuthService
	Resumes   ResumeService
	Jobs      jobsh.JobService
	DB        health.Pinger
	MaxUpload int64
	RateLimit bool
}

// NewRouter wires every route of the API.
func NewRouter(d Deps) http.Handler {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	limit := func(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
		if !d.RateLimit {
			return func(next http.Handler) http.Handler { return next }
		}
		return mw
	}

	r.Get("/health", health.New())
	r.Get("/health/ready", health.Ready(d.Log, d.DB))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.With(limit(rateLimit.Signup())).Post("/auth/signup", signup.New(d.Log, validate, d.Auth))
	r.With(limit(rateLimit.Login())).Post("/auth/login", login.New(d.Log, validate, d.Auth))

	r.Group(func(r chi.Router) {
		r.Use(authn.New(d.Log, d.Auth))

		r.With(limit(rateLimit.Upload())).Post("/resumes/upload", resumesh.Upload(d.Log, d.Resumes, d.MaxUpload))
		r.Get("/resumes", resumesh.List(d.Log, d.Resumes))

		r.Post("/jobs", jobsh.Create(d.Log, validate, d.Jobs))
		r.Get("/jobs", jobsh.List(d.Log, d.Jobs))
		r.Get("/jobs/{id}", jobsh.Get(d.Log, d.Jobs))
		r.Put("/jobs/{id}", jobsh.Update(d.Log, validate, d.Jobs))
		r.Delete("/jobs/{id}", jobsh.Delete(d.Log, d.Jobs))
	})

	return r
}
