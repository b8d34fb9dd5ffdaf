package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
)

// tokenMaxAge caps a session's absolute lifetime. Inactivity is bounded much
// tighter by the sliding expiry on the session row.
const tokenMaxAge = 24 * time.Hour

// dummyHash is compared when the email lookup misses, so unknown accounts and
// wrong passwords cost the same and return the same error.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type StoreAPI interface {
	FindAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	CreateSession(ctx context.Context, adminID, tokenHash string, expires time.Time) error
	TouchSession(ctx context.Context, tokenHash string, expires time.Time) (bool, error)
	RevokeSession(ctx context.Context, tokenHash string) error
}

type Session struct {
	Token     string
	AdminID   string
	Email     string
	CompanyID string
	ExpiresAt time.Time
}

type Service struct {
	store  StoreAPI
	secret string
	ttl    time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl}
}

// Login authenticates an administrator and starts a fresh server-side session.
// A new session identifier is issued on every successful login; nothing from a
// prior session is reused.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	admin, err := s.store.FindAdminByEmail(ctx, email)
	if err != nil {
		_ = CheckPassword(dummyHash, password)
		return Session{}, ErrInvalidCredentials
	}
	if err := CheckPassword(admin.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return Session{}, err
	}
	expires := time.Now().Add(s.ttl)
	if err := s.store.CreateSession(ctx, admin.ID, HashToken(sessionID), expires); err != nil {
		return Session{}, err
	}

	token, err := GenerateToken(s.secret, Claims{
		AdminID:   admin.ID,
		CompanyID: admin.CompanyID,
		Email:     admin.Email,
		SessionID: sessionID,
	}, tokenMaxAge)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		AdminID:   admin.ID,
		Email:     admin.Email,
		CompanyID: admin.CompanyID,
		ExpiresAt: expires,
	}, nil
}

// Authorize resolves a bearer token to the admin context it was issued for,
// sliding the session's inactivity window forward on success.
func (s *Service) Authorize(ctx context.Context, token string) (AdminContext, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return AdminContext{}, ErrUnauthenticated
	}

	ok, err := s.store.TouchSession(ctx, HashToken(claims.SessionID), time.Now().Add(s.ttl))
	if err != nil {
		return AdminContext{}, err
	}
	if !ok {
		return AdminContext{}, ErrUnauthenticated
	}

	return AdminContext{
		AdminID:   claims.AdminID,
		Email:     claims.Email,
		CompanyID: claims.CompanyID,
		SessionID: claims.SessionID,
	}, nil
}

// Logout revokes the session. Revoking an already revoked or unknown session
// is a no-op.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.RevokeSession(ctx, HashToken(sessionID))
}
