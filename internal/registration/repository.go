package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/enrolld/enrolld/internal/platform/db"
)

// Repository provides durable storage for users and activation codes.
// WithTx runs a function against a transactional view of the same
// repository; cross-entity writes (status flip + code delete) must go
// through it so they apply atomically.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdateUserStatus(ctx context.Context, id uuid.UUID, status Status) error
	CreateActivationCode(ctx context.Context, code ActivationCode) (ActivationCode, error)
	ReplaceActivationCode(ctx context.Context, code ActivationCode) (ActivationCode, error)
	GetActivationCode(ctx context.Context, userID uuid.UUID, code string) (ActivationCode, error)
	DeleteActivationCode(ctx context.Context, userID uuid.UUID, code string) error
	DeleteExpiredCodes(ctx context.Context, olderThan time.Time) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const userColumns = "id, email, password_hash, status, created_at, updated_at"

func (r *repository) CreateUser(ctx context.Context, user User) (User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.Status))
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *repository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// UpdateUserStatus is idempotent: updating to the current status succeeds.
func (r *repository) UpdateUserStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) CreateActivationCode(ctx context.Context, code ActivationCode) (ActivationCode, error) {
	query := `
		INSERT INTO activation_tokens (user_id, code)
		VALUES ($1, $2)
		RETURNING user_id, code, created_at`

	created, err := scanActivationCode(r.db.QueryRow(ctx, query, code.UserID, code.Code))
	if err != nil {
		if isUniqueViolation(err, "uq_activation_tokens_code") {
			return ActivationCode{}, ErrDuplicateCode
		}
		return ActivationCode{}, fmt.Errorf("create activation code: %w", err)
	}
	return created, nil
}

// ReplaceActivationCode issues a fresh code for the user, invalidating any
// previous one. Collisions on the global code constraint still surface as
// ErrDuplicateCode so callers can retry with a new value.
func (r *repository) ReplaceActivationCode(ctx context.Context, code ActivationCode) (ActivationCode, error) {
	query := `
		INSERT INTO activation_tokens (user_id, code)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET code = EXCLUDED.code, created_at = now()
		RETURNING user_id, code, created_at`

	replaced, err := scanActivationCode(r.db.QueryRow(ctx, query, code.UserID, code.Code))
	if err != nil {
		if isUniqueViolation(err, "uq_activation_tokens_code") {
			return ActivationCode{}, ErrDuplicateCode
		}
		return ActivationCode{}, fmt.Errorf("replace activation code: %w", err)
	}
	return replaced, nil
}

// GetActivationCode locks the matching row for the remainder of the
// transaction. A concurrent consumer blocks here and, once the winner
// commits its delete, observes no row.
func (r *repository) GetActivationCode(ctx context.Context, userID uuid.UUID, code string) (ActivationCode, error) {
	query := `
		SELECT user_id, code, created_at
		FROM activation_tokens
		WHERE user_id = $1 AND code = $2
		FOR UPDATE`

	ac, err := scanActivationCode(r.db.QueryRow(ctx, query, userID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActivationCode{}, ErrInvalidCode
		}
		return ActivationCode{}, fmt.Errorf("get activation code: %w", err)
	}
	return ac, nil
}

func (r *repository) DeleteActivationCode(ctx context.Context, userID uuid.UUID, code string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM activation_tokens WHERE user_id = $1 AND code = $2`, userID, code)
	if err != nil {
		return fmt.Errorf("delete activation code: %w", err)
	}
	return nil
}

// DeleteExpiredCodes purges codes issued before the cutoff and reports
// how many rows were removed.
func (r *repository) DeleteExpiredCodes(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM activation_tokens WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func scanActivationCode(row pgx.Row) (ActivationCode, error) {
	var c ActivationCode
	if err := row.Scan(&c.UserID, &c.Code, &c.CreatedAt); err != nil {
		return ActivationCode{}, err
	}
	return c, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
