package reviews

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Handler manages public and admin review endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers the public review routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.submit)
}

// MountAdminRoutes registers the admin moderation endpoints. Edits and
// deletes address reviews through the id query parameter.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/reviews", h.list)
	r.Put("/reviews", h.update)
	r.Delete("/reviews", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list reviews", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if reviews == nil {
		reviews = []Review{}
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var input SubmitReviewInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(input); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	review, err := h.service.Submit(r.Context(), input)
	if err != nil {
		h.logger.Error("submit review", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	var input UpdateReviewInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(input); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	review, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("update review", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, review)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("delete review", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) reviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid review id")
		return 0, false
	}
	return id, true
}

func (h *Handler) validate(v any) map[string]string {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			fields[fieldErr.Field()] = fieldErr.Error()
		}
	} else {
		fields["general"] = "invalid input"
	}
	return fields
}
