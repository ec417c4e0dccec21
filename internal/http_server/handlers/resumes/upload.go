package resumes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	resp "job_tracker/internal/lib/api/response"
	"job_tracker/internal/lib/api/status"
	sl "job_tracker/internal/lib/logger/sl"
	"job_tracker/internal/middleware/authn"
	"job_tracker/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const (
	FormField = "file"

	// multipartSlack covers boundaries and part headers on top of the file.
	multipartSlack = 1 << 20
)

type Uploader interface {
	Upload(ctx context.Context, ownerID int64, filename string, size int64, r io.Reader) (models.Resume, error)
}

// Upload stores the multipart "file" part for the caller. The part is
// streamed, never buffered whole.
// @Summary Upload a resume
// @Tags resumes
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume (pdf or txt, up to 5 MiB)"
// @Success 201 {object} models.Resume
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /resumes/upload [post]
func Upload(log *slog.Logger, uploader Uploader, maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resumes.Upload"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("not authenticated"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartSlack)

		part, err := filePart(r)
		if err != nil {
			log.Info("no file in request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			if isTooLarge(err) {
				render.JSON(w, r, resp.Error("file too large"))
			} else {
				render.JSON(w, r, resp.Error("field file is a required field"))
			}

			return
		}
		defer part.Close()

		res, err := uploader.Upload(r.Context(), user.ID, part.FileName(), -1, part)
		if err != nil {
			if isTooLarge(err) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("file too large"))
				return
			}

			status.Render(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, res)
	}
}

// filePart returns the first part named FormField that carries a file name.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, http.ErrMissingFile
			}
			return nil, err
		}

		if part.FormName() == FormField && part.FileName() != "" {
			return part, nil
		}

		_ = part.Close()
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
