package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wyfcoding/fruitable/internal/auth/domain"
	"github.com/wyfcoding/fruitable/pkg/logger"
	"github.com/wyfcoding/fruitable/pkg/token"
)

type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	tokens     *token.Manager
	publisher  domain.EventPublisher
	sessionTTL time.Duration
}

func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	tokens *token.Manager,
	publisher domain.EventPublisher,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		publisher:  publisher,
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return nil, domain.ErrWeakPassword
	}

	user := &domain.User{Email: email, Username: strings.TrimSpace(username)}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	event := domain.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Username:     user.Username,
		RegisteredAt: time.Now(),
	}
	if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
		logger.Warn(ctx, "failed to record registration event", "user_id", user.ID, "error", err)
	}
	return user, nil
}

type LoginResult struct {
	UserID    uint
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a JWT backed by a revocable redis
// session. Unknown emails and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}

	tok, expiresAt, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, tok, user.ID, s.sessionTTL); err != nil {
		return nil, err
	}
	return &LoginResult{UserID: user.ID, Username: user.Username, Token: tok, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Logout(ctx context.Context, tok string) error {
	return s.sessions.Delete(ctx, tok)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
