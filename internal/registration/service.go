package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Notifier delivers an activation code to a registered email address.
type Notifier interface {
	SendActivationCode(ctx context.Context, email, code string) error
}

// ServiceConfig carries the tunable policy knobs of the registration flow.
type ServiceConfig struct {
	CodeTTL           time.Duration
	CodeAttempts      int
	PasswordMinLength int
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.CodeTTL <= 0 {
		c.CodeTTL = 5 * time.Minute
	}
	if c.CodeAttempts <= 0 {
		c.CodeAttempts = 5
	}
	if c.PasswordMinLength <= 0 {
		c.PasswordMinLength = 8
	}
	return c
}

// Service orchestrates registration and activation across the
// repository and the notifier. It holds no mutable state of its own;
// storage uniqueness constraints are the sole concurrency mechanism.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	cfg      ServiceConfig
	now      func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
}

// Register creates a PENDING account for the email, issues an activation
// code in the same transaction and dispatches it best-effort. Two
// concurrent registrations of the same email race on the storage unique
// constraint: exactly one wins, the other receives ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if len(password) < s.cfg.PasswordMinLength {
		return nil, fmt.Errorf("%w: minimum length is %d", ErrPasswordPolicy, s.cfg.PasswordMinLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user User
	var code string
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		created, err := repo.CreateUser(ctx, User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			Status:       StatusPending,
		})
		if err != nil {
			return err
		}
		user = created

		code, err = s.issueCode(ctx, repo, user.ID, repo.CreateActivationCode)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	s.dispatch(ctx, user.Email, code)
	return &user, nil
}

// Activate consumes a matching, non-expired code and flips the user to
// ACTIVE. Re-activating an already-active account succeeds idempotently.
// An expired code is deleted and cannot be retried; it must be reissued
// through Resend.
func (s *Service) Activate(ctx context.Context, email, submittedCode string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsActive() {
		s.logger.Info("activation no-op, user already active", slog.String("user_id", user.ID.String()))
		return &user, nil
	}

	var expired bool
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		code, err := repo.GetActivationCode(ctx, user.ID, submittedCode)
		if err != nil {
			return err
		}
		if code.Expired(s.now(), s.cfg.CodeTTL) {
			expired = true
			return repo.DeleteActivationCode(ctx, user.ID, submittedCode)
		}
		if err := repo.UpdateUserStatus(ctx, user.ID, StatusActive); err != nil {
			return err
		}
		return repo.DeleteActivationCode(ctx, user.ID, submittedCode)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		s.logger.Warn("activation failed, code expired", slog.String("user_id", user.ID.String()))
		return nil, ErrCodeExpired
	}

	user.Activate(s.now())
	s.logger.Info("user activated", slog.String("user_id", user.ID.String()))
	return &user, nil
}

// Resend issues a fresh activation code for a pending account,
// invalidating the previous one, and dispatches it best-effort.
func (s *Service) Resend(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsActive() {
		return nil, ErrAlreadyActive
	}

	var code string
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		code, err = s.issueCode(ctx, repo, user.ID, repo.ReplaceActivationCode)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activation code reissued", slog.String("user_id", user.ID.String()))
	s.dispatch(ctx, user.Email, code)
	return &user, nil
}

// issueCode generates a code and inserts it via the given write,
// retrying on global-uniqueness collisions up to the configured budget.
func (s *Service) issueCode(
	ctx context.Context,
	repo Repository,
	userID uuid.UUID,
	write func(context.Context, ActivationCode) (ActivationCode, error),
) (string, error) {
	for attempt := 0; attempt < s.cfg.CodeAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		_, err = write(ctx, ActivationCode{UserID: userID, Code: code})
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrDuplicateCode) {
			return "", err
		}
		s.logger.Debug("activation code collision, retrying",
			slog.String("user_id", userID.String()),
			slog.Int("attempt", attempt+1))
	}
	return "", ErrCodeExhausted
}

// dispatch sends the code without failing the calling operation: the
// account exists either way and the code can be reissued via Resend.
func (s *Service) dispatch(ctx context.Context, email, code string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendActivationCode(ctx, email, code); err != nil {
		s.logger.Warn("activation code dispatch failed", slog.Any("error", err))
	}
}
