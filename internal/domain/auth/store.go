package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminUser struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (AdminUser, error) {
	var out AdminUser
	err := s.DB.QueryRow(ctx, `
		SELECT id, company_id, email, password_hash, created_at
		FROM admin_users
		WHERE email = $1
	`, email).Scan(&out.ID, &out.CompanyID, &out.Email, &out.PasswordHash, &out.CreatedAt)
	return out, err
}

func (s *Store) CreateSession(ctx context.Context, adminID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO sessions (admin_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, adminID, tokenHash, expires)
	return err
}

// TouchSession validates the session and slides its expiry in one write. It
// reports false when the session is missing, expired or revoked.
func (s *Store) TouchSession(ctx context.Context, tokenHash string, expires time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
		UPDATE sessions
		SET expires_at = $2
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()
	`, tokenHash, expires)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL", tokenHash)
	return err
}
