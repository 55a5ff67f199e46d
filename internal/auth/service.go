package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sohbetapp/sohbet-server/internal/metrics"
	"github.com/sohbetapp/sohbet-server/internal/models"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AttemptCounter tracks failed logins per email within a sliding window.
// A nil counter disables the lockout.
type AttemptCounter interface {
	IncrLoginFailure(ctx context.Context, email string) (int64, error)
	ResetLoginFailures(ctx context.Context, email string) error
}

type Service struct {
	users       store.UserStore
	tokens      *Tokens
	sessions    *Sessions
	attempts    AttemptCounter
	maxAttempts int64
	log         *zap.SugaredLogger
}

func NewService(users store.UserStore, tokens *Tokens, sessions *Sessions, attempts AttemptCounter, maxAttempts int64, log *zap.SugaredLogger) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Service{users: users, tokens: tokens, sessions: sessions, attempts: attempts, maxAttempts: maxAttempts, log: log}
}

func (s *Service) Sessions() *Sessions { return s.sessions }

// ValidateRegistration runs the client-side policy checks without touching
// the store: email shape, minimum password length, confirm-password match.
func ValidateRegistration(email, password, confirm string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if confirm != "" && confirm != password {
		return ErrPasswordMismatch
	}
	return nil
}

func (s *Service) Register(ctx context.Context, email, password, displayName string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := ValidateRegistration(email, password, ""); err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", err
	}
	token, err := s.tokens.Mint(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.sessions.set(u)
	metrics.UsersRegistered.Inc()
	s.log.Infow("user registered", "user_id", u.ID)
	return u, token, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if s.attempts != nil {
			n, cerr := s.attempts.IncrLoginFailure(ctx, email)
			if cerr != nil {
				s.log.Warnw("attempt counter", "err", cerr)
			} else if n > s.maxAttempts {
				return nil, "", ErrTooManyAttempts
			}
		}
		return nil, "", ErrWrongPassword
	}
	if s.attempts != nil {
		_ = s.attempts.ResetLoginFailures(ctx, email)
	}
	token, err := s.tokens.Mint(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.sessions.set(u)
	s.log.Infow("user logged in", "user_id", u.ID)
	return u, token, nil
}

// Logout invalidates the current session and notifies observers.
func (s *Service) Logout(_ context.Context) {
	s.sessions.set(nil)
}
