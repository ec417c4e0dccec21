package authn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"job_tracker/internal/auth"
	resp "job_tracker/internal/lib/api/response"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ctxKey struct{}

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (models.User, error)
}

// New rejects requests without a valid bearer token and puts the resolved
// user into the request context.
func New(log *slog.Logger, gateway Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn"

			user, err := gateway.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					w.Header().Set("WWW-Authenticate", "Bearer")
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, resp.Error("not authenticated"))

					return
				}

				log.Error("failed to authenticate request",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}
