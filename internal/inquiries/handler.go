package inquiries

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Handler manages contact form and admin inquiry endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountContactRoute registers the public contact form endpoint.
func (h *Handler) MountContactRoute(r chi.Router) {
	r.Post("/", h.submit)
}

// MountAdminRoutes registers the admin-side inquiry management endpoints.
// The quotes listing and the inquiries CRUD live side by side; updates and
// deletes address records through the id query parameter.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/quotes", h.listQuotes)
	r.Get("/inquiries", h.listAll)
	r.Put("/inquiries", h.update)
	r.Delete("/inquiries", h.delete)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var input SubmitInquiryInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(input); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	inquiry, err := h.service.Submit(r.Context(), input, r.RemoteAddr)
	if err != nil {
		if errors.Is(err, ErrCaptchaRejected) {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "captcha verification failed")
			return
		}
		h.logger.Error("submit inquiry", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Thank you for reaching out. We will get back to you shortly.",
		"id":      inquiry.ID,
	})
}

func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.service.ListQuotes(r.Context())
	if err != nil {
		h.logger.Error("list quotes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if quotes == nil {
		quotes = []Inquiry{}
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list inquiries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if inquiries == nil {
		inquiries = []Inquiry{}
	}
	httpx.JSON(w, http.StatusOK, inquiries)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.inquiryID(w, r)
	if !ok {
		return
	}

	var input UpdateInquiryInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(input); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	inquiry, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("update inquiry", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inquiry)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.inquiryID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("delete inquiry", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) inquiryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid inquiry id")
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
