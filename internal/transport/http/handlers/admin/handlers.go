package adminhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dsar/internal/domain/auth"
	"dsar/internal/domain/dsar"
	"dsar/internal/transport/http/api"
	"dsar/internal/transport/http/middleware"
	"dsar/internal/transport/http/shared"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (auth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

type RequestService interface {
	ListRequests(ctx context.Context, companyID, statusFilter string, limit, offset int) ([]dsar.Request, int, error)
	RequestDetail(ctx context.Context, companyID, id string) (dsar.Request, error)
	Transition(ctx context.Context, companyID, id string, next dsar.Status) (dsar.Request, error)
	GenerateResponseDocument(ctx context.Context, companyID, id string) (dsar.Request, error)
}

type Handler struct {
	Auth     AuthService
	Requests RequestService
}

func NewHandler(authSvc AuthService, requests RequestService) *Handler {
	return &Handler{Auth: authSvc, Requests: requests}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Post("/logout", h.handleLogout)
			r.Get("/requests", h.handleListRequests)
			r.Get("/requests/{requestID}", h.handleRequestDetail)
			r.Post("/requests/{requestID}/status", h.handleUpdateStatus)
			r.Post("/requests/{requestID}/document", h.handleGenerateDocument)
		})
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	session, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to start session", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"admin": map[string]string{
			"id":        session.AdminID,
			"email":     session.Email,
			"companyId": session.CompanyID,
		},
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.GetAdmin(r.Context())
	if err := h.Auth.Logout(r.Context(), admin.SessionID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "logout_failed", "failed to end session", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.GetAdmin(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	requests, total, err := h.Requests.ListRequests(r.Context(), admin.CompanyID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, dsar.ErrValidation) {
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"requests": requests,
		"total":    total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRequestDetail(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.GetAdmin(r.Context())

	req, err := h.Requests.RequestDetail(r.Context(), admin.CompanyID, chi.URLParam(r, "requestID"))
	if err != nil {
		h.failRequestError(w, r, err, "failed to load request")
		return
	}

	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.GetAdmin(r.Context())

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	status, ok := dsar.ParseStatus(payload.Status)
	if !ok {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{
			{Field: "status", Reason: "must be one of pending, in_progress, completed or rejected"},
		})
		return
	}

	req, err := h.Requests.Transition(r.Context(), admin.CompanyID, chi.URLParam(r, "requestID"), status)
	if err != nil {
		h.failRequestError(w, r, err, "failed to update status")
		return
	}

	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.GetAdmin(r.Context())

	req, err := h.Requests.GenerateResponseDocument(r.Context(), admin.CompanyID, chi.URLParam(r, "requestID"))
	if err != nil {
		h.failRequestError(w, r, err, "failed to generate response document")
		return
	}

	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failRequestError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, dsar.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "request not found", requestID)
	case errors.Is(err, dsar.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, dsar.ErrDocumentGeneration):
		api.Fail(w, http.StatusBadGateway, "document_generation_failed", "document generation failed, the request was left unchanged", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}
