package dsar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	companies []Company
	requests  map[string]Request
}

func newFakeStore(companies ...Company) *fakeStore {
	return &fakeStore{companies: companies, requests: map[string]Request{}}
}

func (f *fakeStore) FirstCompany(ctx context.Context) (Company, error) {
	if len(f.companies) == 0 {
		return Company{}, ErrNotFound
	}
	return f.companies[0], nil
}

func (f *fakeStore) CreateRequest(ctx context.Context, req Request) error {
	f.requests[req.ID] = req
	return nil
}

func (f *fakeStore) RequestByID(ctx context.Context, id string) (Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (f *fakeStore) RequestForCompany(ctx context.Context, companyID, id string) (Request, error) {
	req, ok := f.requests[id]
	if !ok || req.CompanyID != companyID {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (f *fakeStore) ListRequests(ctx context.Context, companyID string, status Status, limit, offset int) ([]Request, int, error) {
	var out []Request
	for _, req := range f.requests {
		if req.CompanyID != companyID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, companyID, id string, status Status) (Request, error) {
	req, err := f.RequestForCompany(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}
	req.Status = status
	if status == StatusCompleted && req.CompletedAt == nil {
		now := time.Now().UTC()
		req.CompletedAt = &now
	}
	f.requests[id] = req
	return req, nil
}

func (f *fakeStore) SetResponseDocument(ctx context.Context, companyID, id, ref string) (Request, error) {
	req, err := f.RequestForCompany(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}
	req.ResponseDocumentRef = ref
	if req.Status != StatusCompleted && req.Status != StatusRejected {
		req.Status = StatusInProgress
	}
	f.requests[id] = req
	return req, nil
}

type fakeGenerator struct {
	ref   string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, spec DocumentSpec) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.ref, nil
}

type fakeNotifier struct {
	err   error
	calls chan string
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, calls: make(chan string, 4)}
}

func (f *fakeNotifier) NotifyRequester(ctx context.Context, email, name, requestID string) error {
	f.calls <- "requester:" + email
	return f.err
}

func (f *fakeNotifier) NotifyAdmin(ctx context.Context, requestID, requesterEmail string) error {
	f.calls <- "admin:" + requesterEmail
	return f.err
}

func (f *fakeNotifier) await(t *testing.T, n int) []string {
	t.Helper()
	var got []string
	for i := 0; i < n; i++ {
		select {
		case call := <-f.calls:
			got = append(got, call)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d", i+1, n)
		}
	}
	return got
}

func testCompany() Company {
	return Company{ID: uuid.NewString(), Name: "Acme", ContactEmail: "privacy@acme.test", CreatedAt: time.Now().UTC()}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	notifier := newFakeNotifier(nil)
	svc := NewService(store, &fakeGenerator{ref: "/documents/x.pdf"}, notifier)

	before := time.Now().UTC()
	req, err := svc.Submit(context.Background(), Submission{
		Email:       "a@b.com",
		FullName:    "Jo Lee",
		RequestType: "access",
		Message:     "",
	})
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", req.Status)
	}
	if req.CompletedAt != nil {
		t.Fatal("expected completed_at to be unset on creation")
	}
	if req.CompanyID != company.ID {
		t.Fatalf("expected request bound to company %s, got %s", company.ID, req.CompanyID)
	}
	if req.SubmittedAt.Before(before) || req.SubmittedAt.After(after) {
		t.Fatalf("submitted_at %v outside call window [%v, %v]", req.SubmittedAt, before, after)
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		t.Fatalf("expected a uuid request id, got %q", req.ID)
	}

	notifier.await(t, 2)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
	}{
		{name: "malformed email", sub: Submission{Email: "not-an-email", FullName: "Jo Lee", RequestType: "access"}},
		{name: "name too short", sub: Submission{Email: "a@b.com", FullName: "J", RequestType: "access"}},
		{name: "name too long", sub: Submission{Email: "a@b.com", FullName: strings.Repeat("x", 256), RequestType: "access"}},
		{name: "unknown request type", sub: Submission{Email: "a@b.com", FullName: "Jo Lee", RequestType: "export"}},
		{name: "message too long", sub: Submission{Email: "a@b.com", FullName: "Jo Lee", RequestType: "access", Message: strings.Repeat("m", 2001)}},
	}

	svc := NewService(newFakeStore(testCompany()), &fakeGenerator{}, nil)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), tc.sub); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSubmitWithoutCompany(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{}, nil)

	_, err := svc.Submit(context.Background(), Submission{Email: "a@b.com", FullName: "Jo Lee", RequestType: "access"})
	if !errors.Is(err, ErrNoCompanyConfigured) {
		t.Fatalf("expected ErrNoCompanyConfigured, got %v", err)
	}
}

func TestSubmitSucceedsWhenNotifierFails(t *testing.T) {
	store := newFakeStore(testCompany())
	notifier := newFakeNotifier(errors.New("smtp unreachable"))
	svc := NewService(store, &fakeGenerator{}, notifier)

	req, err := svc.Submit(context.Background(), Submission{Email: "a@b.com", FullName: "Jo Lee", RequestType: "delete"})
	if err != nil {
		t.Fatalf("submission must succeed despite notifier failure, got %v", err)
	}
	if _, ok := store.requests[req.ID]; !ok {
		t.Fatal("expected request to be persisted")
	}

	notifier.await(t, 2)
}

func TestConfirmation(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{}, nil)

	req, err := svc.Submit(context.Background(), Submission{Email: "a@b.com", FullName: "Jo Lee", RequestType: "access"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Confirmation(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected pending confirmation, got %s", got.Status)
	}

	if _, err := svc.Confirmation(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := svc.Confirmation(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func seedRequest(store *fakeStore, companyID string, status Status) Request {
	req := Request{
		ID:             uuid.NewString(),
		CompanyID:      companyID,
		RequesterEmail: "a@b.com",
		RequesterName:  "Jo Lee",
		RequestType:    TypeAccess,
		Status:         status,
		SubmittedAt:    time.Now().UTC(),
	}
	store.requests[req.ID] = req
	return req
}

func TestTransitionTenantScoping(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{}, nil)

	req := seedRequest(store, company.ID, StatusPending)

	_, err := svc.Transition(context.Background(), uuid.NewString(), req.ID, StatusInProgress)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("request of another company must be indistinguishable from a missing one, got %v", err)
	}

	if store.requests[req.ID].Status != StatusPending {
		t.Fatal("request must not change under a foreign company scope")
	}
}

func TestTransitionSetsCompletedAtOnce(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{}, nil)

	req := seedRequest(store, company.ID, StatusInProgress)

	first, err := svc.Transition(context.Background(), company.ID, req.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.CompletedAt == nil {
		t.Fatal("expected completed_at to be set on completion")
	}

	second, err := svc.Transition(context.Background(), company.ID, req.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("re-entering completed must be a no-op, got %v", err)
	}
	if second.CompletedAt == nil || !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("completed_at must not change on repeat completion: first %v, second %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{}, nil)

	completed := seedRequest(store, company.ID, StatusCompleted)
	if _, err := svc.Transition(context.Background(), company.ID, completed.ID, StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition leaving completed, got %v", err)
	}

	rejected := seedRequest(store, company.ID, StatusRejected)
	if _, err := svc.Transition(context.Background(), company.ID, rejected.ID, StatusCompleted); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition rejected->completed, got %v", err)
	}
}

func TestGenerateDocumentFailureLeavesRequestUnchanged(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	generator := &fakeGenerator{err: errors.New("renderer crashed")}
	svc := NewService(store, generator, nil)

	req := seedRequest(store, company.ID, StatusPending)

	_, err := svc.GenerateResponseDocument(context.Background(), company.ID, req.ID)
	if !errors.Is(err, ErrDocumentGeneration) {
		t.Fatalf("expected ErrDocumentGeneration, got %v", err)
	}

	stored := store.requests[req.ID]
	if stored.Status != StatusPending || stored.ResponseDocumentRef != "" {
		t.Fatalf("request must be untouched after generator failure: status=%s ref=%q", stored.Status, stored.ResponseDocumentRef)
	}
}

func TestGenerateDocumentRecordsReference(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{ref: "/documents/response.pdf"}, nil)

	req := seedRequest(store, company.ID, StatusPending)

	got, err := svc.GenerateResponseDocument(context.Background(), company.ID, req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ResponseDocumentRef != "/documents/response.pdf" {
		t.Fatalf("expected document reference to be recorded, got %q", got.ResponseDocumentRef)
	}
	if got.Status != StatusInProgress {
		t.Fatalf("expected status to advance to in_progress, got %s", got.Status)
	}
}

func TestGenerateDocumentKeepsTerminalStatus(t *testing.T) {
	company := testCompany()
	store := newFakeStore(company)
	svc := NewService(store, &fakeGenerator{ref: "/documents/late.pdf"}, nil)

	req := seedRequest(store, company.ID, StatusCompleted)

	got, err := svc.GenerateResponseDocument(context.Background(), company.ID, req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("completed request must not be demoted, got %s", got.Status)
	}
	if got.ResponseDocumentRef != "/documents/late.pdf" {
		t.Fatalf("expected reference to be recorded, got %q", got.ResponseDocumentRef)
	}
}

func TestListRequestsRejectsUnknownStatusFilter(t *testing.T) {
	company := testCompany()
	svc := NewService(newFakeStore(company), &fakeGenerator{}, nil)

	_, _, err := svc.ListRequests(context.Background(), company.ID, "archived", 50, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
