package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/mindgames/backend/internal/models"
)

// ErrUsernameTaken is returned when a unique constraint rejects a new user.
var ErrUsernameTaken = errors.New("username or email already registered")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, username, email, country_code, gender, age_range, handedness, is_public, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User, extra ...interface{}) error {
	dest := []interface{}{&u.ID, &u.Username, &u.Email, &u.CountryCode, &u.Gender,
		&u.AgeRange, &u.Handedness, &u.IsPublic, &u.CreatedAt, &u.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

func nullIfEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash, countryCode string) (*models.User, error) {
	var u models.User
	err := scanUser(s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, country_code)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		username, nullIfEmpty(email), passwordHash, nullIfEmpty(countryCode),
	), &u)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// GetCredentials returns the user and stored password hash for login.
func (s *Store) GetCredentials(ctx context.Context, username string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE username = $1`,
		username,
	), &u, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", models.ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get credentials: %w", err)
	}
	return &u, hash, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id int64, req models.UpdateProfileRequest) (*models.User, error) {
	var u models.User
	err := scanUser(s.db.QueryRowContext(ctx,
		`UPDATE users SET
		    country_code = $2, gender = $3, age_range = $4, handedness = $5, is_public = $6,
		    updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, req.CountryCode, req.Gender, req.AgeRange, req.Handedness, req.IsPublic,
	), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}
