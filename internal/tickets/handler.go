package tickets

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/verdantfield/portal/internal/auth"
	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Handler manages ticket endpoints. All routes require an authenticated
// session; the status update additionally requires the admin role.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     auth.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authz auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: authz, validator: validator.New()}
}

// MountRoutes registers ticket routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.authz.RequireUser)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.With(h.authz.RequireRole(auth.RoleAdmin)).Patch("/{id}", h.updateStatus)
}

// list branches on the caller's role: admins see every ticket with
// requester details, customers see only their own.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	if user.Role == auth.RoleAdmin {
		tickets, err := h.service.ListAll(r.Context())
		if err != nil {
			h.logger.Error("list all tickets", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		if tickets == nil {
			tickets = []TicketWithUser{}
		}
		httpx.JSON(w, http.StatusOK, tickets)
		return
	}

	tickets, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list own tickets", slog.Any("error", err), slog.Int64("user_id", user.ID))
		httpx.RespondError(w, err)
		return
	}
	if tickets == nil {
		tickets = []Ticket{}
	}
	httpx.JSON(w, http.StatusOK, tickets)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	var input CreateTicketInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(input); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	ticket, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		if !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("create ticket", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ticket)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ticket id")
		return
	}

	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields := h.validate(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	ticket, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrValidation) {
			h.logger.Error("update ticket status", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ticket)
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
