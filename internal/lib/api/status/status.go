// Package status maps service errors to HTTP status codes and the message
// shown to the client.
package status

import (
	"errors"
	"net/http"

	"job_tracker/internal/auth"
	"job_tracker/internal/jobs"
	resp "job_tracker/internal/lib/api/response"
	"job_tracker/internal/lib/password"
	"job_tracker/internal/resumes"
	"job_tracker/internal/storage"

	"github.com/go-chi/render"
)

const InternalError = "Internal error"

var table = []struct {
	err  error
	code int
	msg  string
}{
	{auth.ErrEmailTaken, http.StatusBadRequest, "email already registered"},
	{auth.ErrInvalidCredentials, http.StatusBadRequest, "invalid email or password"},
	{auth.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
	{password.ErrTooLong, http.StatusBadRequest, "password is too long"},
	{resumes.ErrUnsupportedType, http.StatusBadRequest, "only pdf and txt files are allowed"},
	{resumes.ErrFileTooLarge, http.StatusBadRequest, "file too large"},
	{jobs.ErrInvalidStatus, http.StatusBadRequest, "invalid status"},
	{jobs.ErrInvalidJob, http.StatusBadRequest, "invalid job"},
	{jobs.ErrNotFound, http.StatusNotFound, "job not found"},
	{storage.ErrJobNotFound, http.StatusNotFound, "job not found"},
}

// From returns the status code and client message for err. Unknown errors
// are 500 with a generic message.
func From(err error) (int, string) {
	for _, e := range table {
		if errors.Is(err, e.err) {
			return e.code, e.msg
		}
	}

	return http.StatusInternalServerError, InternalError
}

// Render writes the error response for err.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := From(err)

	render.Status(r, code)
	render.JSON(w, r, resp.Error(msg))
}
