package dsar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxNameLength    = 255
	minNameLength    = 2
	maxMessageLength = 2000

	notifyTimeout = 15 * time.Second
)

// DocumentSpec carries the request data handed to the document generator.
// The core never sees the document's contents, only the returned reference.
type DocumentSpec struct {
	RequestID      string
	RequestType    RequestType
	RequesterName  string
	RequesterEmail string
	GeneratedAt    time.Time
}

type DocumentGenerator interface {
	Generate(ctx context.Context, spec DocumentSpec) (string, error)
}

// Notifier delivers best-effort mail. Failures are logged by the caller and
// never fail the operation that triggered them.
type Notifier interface {
	NotifyRequester(ctx context.Context, email, name, requestID string) error
	NotifyAdmin(ctx context.Context, requestID, requesterEmail string) error
}

type Service struct {
	store     StoreAPI
	documents DocumentGenerator
	notifier  Notifier
}

func NewService(store StoreAPI, documents DocumentGenerator, notifier Notifier) *Service {
	return &Service{store: store, documents: documents, notifier: notifier}
}

type Submission struct {
	Email       string
	FullName    string
	RequestType string
	Message     string
}

// Submit validates the public intake payload, creates a pending request under
// the single configured company and fires confirmation mail off the request
// path.
func (s *Service) Submit(ctx context.Context, sub Submission) (Request, error) {
	reqType, ok := ParseRequestType(sub.RequestType)
	if !ok {
		return Request{}, fmt.Errorf("%w: unknown request type %q", ErrValidation, sub.RequestType)
	}
	name := strings.TrimSpace(sub.FullName)
	if len(name) < minNameLength || len(name) > maxNameLength {
		return Request{}, fmt.Errorf("%w: full name must be between %d and %d characters", ErrValidation, minNameLength, maxNameLength)
	}
	email := strings.TrimSpace(sub.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Request{}, fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	if len(sub.Message) > maxMessageLength {
		return Request{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}

	company, err := s.store.FirstCompany(ctx)
	if errors.Is(err, ErrNotFound) {
		return Request{}, ErrNoCompanyConfigured
	}
	if err != nil {
		return Request{}, err
	}

	req := Request{
		ID:             uuid.NewString(),
		CompanyID:      company.ID,
		RequesterEmail: email,
		RequesterName:  name,
		RequestType:    reqType,
		RequestMessage: sub.Message,
		Status:         StatusPending,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return Request{}, err
	}

	s.notifyAsync(req)
	return req, nil
}

// notifyAsync runs off the caller's goroutine: the submission is already
// durable and must be reported as a success whatever the mail transport does.
func (s *Service) notifyAsync(req Request) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifyRequester(ctx, req.RequesterEmail, req.RequesterName, req.ID); err != nil {
			slog.Warn("requester notification failed", "requestId", req.ID, "err", err)
		}
		if err := s.notifier.NotifyAdmin(ctx, req.ID, req.RequesterEmail); err != nil {
			slog.Warn("admin notification failed", "requestId", req.ID, "err", err)
		}
	}()
}

// Confirmation fetches a request by id alone. Ids are 128-bit random values,
// wide enough that holding one proves the caller submitted it.
func (s *Service) Confirmation(ctx context.Context, id string) (Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Request{}, ErrNotFound
	}
	return s.store.RequestByID(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, companyID, statusFilter string, limit, offset int) ([]Request, int, error) {
	var status Status
	if statusFilter != "" {
		parsed, ok := ParseStatus(statusFilter)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, statusFilter)
		}
		status = parsed
	}
	return s.store.ListRequests(ctx, companyID, status, limit, offset)
}

func (s *Service) RequestDetail(ctx context.Context, companyID, id string) (Request, error) {
	return s.store.RequestForCompany(ctx, companyID, id)
}

// Transition moves a request to the next status under the caller's company
// scope, enforcing the lifecycle rules of CanTransition.
func (s *Service) Transition(ctx context.Context, companyID, id string, next Status) (Request, error) {
	current, err := s.store.RequestForCompany(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}
	if !CanTransition(current.Status, next) {
		return Request{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, next)
	}
	return s.store.UpdateStatus(ctx, companyID, id, next)
}

// GenerateResponseDocument invokes the document collaborator and records the
// returned reference. A collaborator failure leaves the request untouched.
func (s *Service) GenerateResponseDocument(ctx context.Context, companyID, id string) (Request, error) {
	req, err := s.store.RequestForCompany(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}

	ref, err := s.documents.Generate(ctx, DocumentSpec{
		RequestID:      req.ID,
		RequestType:    req.RequestType,
		RequesterName:  req.RequesterName,
		RequesterEmail: req.RequesterEmail,
		GeneratedAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Error("response document generation failed", "requestId", req.ID, "err", err)
		return Request{}, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}

	return s.store.SetResponseDocument(ctx, companyID, id, ref)
}
