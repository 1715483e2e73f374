// Package users maps identity-provider subjects onto local user records.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no user has the requested external ID.
var ErrNotFound = errors.New("user not found")

// User is a person who has taken at least one assessment.
type User struct {
	ID         string
	ExternalID string // subject claim from the identity provider
	CreatedAt  time.Time
}

// Service provides user management backed by Postgres.
type Service struct {
	db *sql.DB
}

// NewService creates a new user Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// GetByExternalID looks up a user by identity-provider subject.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, external_id, created_at FROM users WHERE external_id = $1`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", externalID, err)
	}
	return u, nil
}

func (s *Service) create(ctx context.Context, externalID string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (external_id) VALUES ($1)
		 RETURNING id, external_id, created_at`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", externalID, err)
	}
	return u, nil
}

// EnsureUser gets or creates the user for externalID.
func (s *Service) EnsureUser(ctx context.Context, externalID string) (*User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("ensure user: empty external id")
	}

	u, err := s.GetByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	u, err = s.create(ctx, externalID)
	if err != nil {
		// Lost a race with a concurrent first submission; read the winner.
		if isUniqueViolation(err) {
			u, err = s.GetByExternalID(ctx, externalID)
			if err != nil {
				return nil, fmt.Errorf("ensure user: %w", err)
			}
			return u, nil
		}
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
