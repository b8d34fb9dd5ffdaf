package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"dsar/internal/domain/auth"
	"dsar/internal/platform/config"
)

// Seed ensures the single company record and one admin user exist.
// Both operations are idempotent across restarts.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	companyID, err := ensureCompany(ctx, pool, cfg.SeedCompanyName, cfg.SeedCompanyEmail)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.SeedAdminEmail) == "" {
		return nil
	}
	return ensureAdminUser(ctx, pool, companyID, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name, contactEmail string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies ORDER BY created_at ASC LIMIT 1").Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO companies (name, contact_email) VALUES ($1, $2) RETURNING id", name, contactEmail).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM admin_users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "INSERT INTO admin_users (company_id, email, password_hash) VALUES ($1, $2, $3)", companyID, email, hash)
	return err
}
