package publichandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dsar/internal/domain/dsar"
	"dsar/internal/transport/http/api"
	"dsar/internal/transport/http/middleware"
	"dsar/internal/transport/http/shared"
)

type IntakeService interface {
	Submit(ctx context.Context, sub dsar.Submission) (dsar.Request, error)
	Confirmation(ctx context.Context, id string) (dsar.Request, error)
}

type Handler struct {
	Intake IntakeService
}

func NewHandler(intake IntakeService) *Handler {
	return &Handler{Intake: intake}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/requests", h.handleSubmit)
	r.Get("/requests/{requestID}", h.handleConfirmation)
}

type submitRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	RequestType string `json:"requestType"`
	Message     string `json:"message"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("fullName", payload.FullName, "full name is required")
	v.Length("fullName", payload.FullName, 2, 255)
	v.Required("requestType", payload.RequestType, "request type is required")
	v.Enum("requestType", payload.RequestType, []string{"access", "delete", "rectify"}, "must be one of access, delete or rectify")
	v.MaxLength("message", payload.Message, 2000)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Intake.Submit(r.Context(), dsar.Submission{
		Email:       payload.Email,
		FullName:    payload.FullName,
		RequestType: payload.RequestType,
		Message:     payload.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, dsar.ErrValidation):
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), middleware.GetRequestID(r.Context()))
		case errors.Is(err, dsar.ErrNoCompanyConfigured):
			api.Fail(w, http.StatusServiceUnavailable, "no_company_configured", "no company is configured to receive requests", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit request", middleware.GetRequestID(r.Context()))
		}
		return
	}

	api.Created(w, map[string]any{
		"id":          req.ID,
		"status":      req.Status,
		"submittedAt": req.SubmittedAt,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	req, err := h.Intake.Confirmation(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, dsar.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load request", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, req, middleware.GetRequestID(r.Context()))
}
