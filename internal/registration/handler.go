package registration

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/enrolld/enrolld/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the registration flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if detail, ok := h.validate(req); !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", detail)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			httpx.Problem(w, http.StatusConflict, "Conflict", ErrEmailTaken.Error())
		case errors.Is(err, ErrPasswordPolicy):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		default:
			h.logger.Error("register failed", slog.String("email", req.Email), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, newUserResponse(user))
}

// Activate handles POST /activate. Credentials arrive as HTTP Basic auth
// (identity = email, secret = code) or as a JSON body.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.activateRequest(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing credentials")
		return
	}
	if detail, valid := h.validate(req); !valid {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", detail)
		return
	}

	user, err := h.service.Activate(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", ErrUserNotFound.Error())
		case errors.Is(err, ErrInvalidCode):
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", ErrInvalidCode.Error())
		case errors.Is(err, ErrCodeExpired):
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", ErrCodeExpired.Error())
		default:
			h.logger.Error("activate failed", slog.String("email", req.Email), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

// Resend handles POST /resend.
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	var req ResendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if detail, ok := h.validate(req); !ok {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", detail)
		return
	}

	user, err := h.service.Resend(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", ErrUserNotFound.Error())
		case errors.Is(err, ErrAlreadyActive):
			httpx.Problem(w, http.StatusConflict, "Conflict", ErrAlreadyActive.Error())
		default:
			h.logger.Error("resend failed", slog.String("email", req.Email), slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Handler) activateRequest(r *http.Request) (ActivateRequest, bool) {
	if email, code, ok := r.BasicAuth(); ok {
		return ActivateRequest{Email: email, Code: code}, true
	}
	var req ActivateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return ActivateRequest{}, false
	}
	return req, true
}

func (h *Handler) validate(v any) (string, bool) {
	err := h.validator.Struct(v)
	if err == nil {
		return "", true
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request", false
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid fields: " + strings.Join(fields, ", "), false
}
