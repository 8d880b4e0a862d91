package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmarchuk/auth-service/internal/events"
	"github.com/dmarchuk/auth-service/internal/models"
	"github.com/dmarchuk/auth-service/internal/repo"
	"github.com/dmarchuk/auth-service/pkg/hash"
	"github.com/dmarchuk/auth-service/pkg/logging"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *TokenService
	Producer *events.Producer

	// Usernames granted the staff role at registration. Replaces the
	// single hard-coded staff username with a configurable allowlist.
	StaffUsernames []string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) roleFor(username string) string {
	for _, staff := range s.StaffUsernames {
		if staff == username {
			return models.RoleStaff
		}
	}
	return models.RoleUser
}

// Register creates a user. The existence check and the insert are two
// store round trips, not a transaction; see repo.CreateUser.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if _, err := s.Repo.FindByUsername(ctx, username); err == nil {
		l.Warn("register_failed", "status", 403, "reason", "user already exists")
		return repo.ErrUserExists
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         s.roleFor(username),
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return err
	}

	s.publish(ctx, &user, "user_registered")
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	access, refresh, err := s.Tokens.IssuePair(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, user, "user_logged_in")

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    now.Add(s.Tokens.AccessTTL),
		RefreshExp:   now.Add(s.Tokens.RefreshTTL),
	}, nil
}

func (s *AuthService) Whoami(ctx context.Context, username string) (*models.User, error) {
	return s.Repo.FindByUsername(ctx, username)
}

func (s *AuthService) publish(ctx context.Context, user *models.User, eventType string) {
	event := map[string]interface{}{
		"type":     eventType,
		"user_id":  user.ID,
		"username": user.Username,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
