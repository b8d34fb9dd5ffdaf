package dsar

import "context"

// StoreAPI is the persistence surface of the request lifecycle. Every lookup
// and mutation that takes a companyID is tenant scoped: a request owned by a
// different company is reported as ErrNotFound, indistinguishable from a
// missing row.
type StoreAPI interface {
	FirstCompany(ctx context.Context) (Company, error)
	CreateRequest(ctx context.Context, req Request) error
	RequestByID(ctx context.Context, id string) (Request, error)
	RequestForCompany(ctx context.Context, companyID, id string) (Request, error)
	ListRequests(ctx context.Context, companyID string, status Status, limit, offset int) ([]Request, int, error)
	UpdateStatus(ctx context.Context, companyID, id string, status Status) (Request, error)
	SetResponseDocument(ctx context.Context, companyID, id, ref string) (Request, error)
}
