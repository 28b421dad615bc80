package interviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateUser inserts a new account. Email addresses are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	email = strings.TrimSpace(email)
	if _, err := s.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// UserByEmail looks up an account by email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.queryUser(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", strings.TrimSpace(email))
}

// UserByID looks up an account by ID.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id)
}

// UpdateUser changes the name and/or email of an account. Empty values are left unchanged.
func (s *Store) UpdateUser(ctx context.Context, id, name, email string) (*User, error) {
	user, err := s.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.TrimSpace(email); email != "" && !strings.EqualFold(email, user.Email) {
		if _, err := s.UserByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if _, err := s.execWithRetry(ctx, "UPDATE users SET name = ?, email = ? WHERE id = ?", user.Name, user.Email, user.ID); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *Store) queryUser(ctx context.Context, query string, arg string) (*User, error) {
	ctx = ensureContext(ctx)
	var (
		user      User
		createdAt string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	user.CreatedAt = ts
	return &user, nil
}
