package dsar

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `
	id, company_id, requester_email, requester_name, request_type,
	COALESCE(request_message, ''), status,
	COALESCE(response_document_ref, ''), COALESCE(response_notes, ''),
	submitted_at, completed_at`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.RequesterEmail, &req.RequesterName, &req.RequestType,
		&req.RequestMessage, &req.Status,
		&req.ResponseDocumentRef, &req.ResponseNotes,
		&req.SubmittedAt, &req.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) FirstCompany(ctx context.Context) (Company, error) {
	var company Company
	err := s.DB.QueryRow(ctx, `
		SELECT id, name, contact_email, created_at
		FROM companies
		ORDER BY created_at ASC
		LIMIT 1
	`).Scan(&company.ID, &company.Name, &company.ContactEmail, &company.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Company{}, ErrNotFound
	}
	return company, err
}

func (s *Store) CreateRequest(ctx context.Context, req Request) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO dsar_requests (id, company_id, requester_email, requester_name, request_type, request_message, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
	`, req.ID, req.CompanyID, req.RequesterEmail, req.RequesterName, req.RequestType, req.RequestMessage, req.Status, req.SubmittedAt)
	return err
}

func (s *Store) RequestByID(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM dsar_requests WHERE id = $1`, id))
}

func (s *Store) RequestForCompany(ctx context.Context, companyID, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM dsar_requests
		WHERE company_id = $1 AND id = $2
	`, companyID, id))
}

func (s *Store) ListRequests(ctx context.Context, companyID string, status Status, limit, offset int) ([]Request, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `
		SELECT COUNT(1) FROM dsar_requests
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
	`, companyID, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
		SELECT `+requestColumns+`
		FROM dsar_requests
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY submitted_at DESC
		LIMIT $3 OFFSET $4
	`, companyID, string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, total, rows.Err()
}

// UpdateStatus persists the status change and any completed_at side effect in
// a single write. completed_at is set the first time the request enters
// completed and never overwritten afterwards.
func (s *Store) UpdateStatus(ctx context.Context, companyID, id string, status Status) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
		UPDATE dsar_requests
		SET status = $3,
		    completed_at = CASE WHEN $3 = 'completed' THEN COALESCE(completed_at, now()) ELSE completed_at END
		WHERE company_id = $1 AND id = $2
		RETURNING `+requestColumns, companyID, id, status))
}

// SetResponseDocument records the generated document reference and advances
// the request to in_progress unless it already reached a terminal status, as
// one atomic write.
func (s *Store) SetResponseDocument(ctx context.Context, companyID, id, ref string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
		UPDATE dsar_requests
		SET response_document_ref = $3,
		    status = CASE WHEN status IN ('completed', 'rejected') THEN status ELSE 'in_progress' END
		WHERE company_id = $1 AND id = $2
		RETURNING `+requestColumns, companyID, id, ref))
}
