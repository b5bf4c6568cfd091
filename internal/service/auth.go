package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/smart_inventory/internal/events"
	"github.com/Skotchmaster/smart_inventory/internal/models"
	"github.com/Skotchmaster/smart_inventory/internal/repo"
	"github.com/Skotchmaster/smart_inventory/internal/tokens"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
	"github.com/Skotchmaster/smart_inventory/pkg/hash"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

// UserStore is the credential store.
type UserStore interface {
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id uint, patch repo.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type AuthService struct {
	Users  UserStore
	Hasher *hash.Hasher
	Tokens *tokens.Service
	Events events.Publisher
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

var fieldCheck = validator.New(validator.WithRequiredStructEnabled())

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return 0, validation("username is required")
	case len(username) > transport.MaxUsernameLen:
		return 0, validation("username is longer than %d characters", transport.MaxUsernameLen)
	case req.Password == "":
		return 0, validation("password is required")
	case len(req.Password) > hash.MaxPasswordBytes:
		return 0, validation("password is longer than %d bytes", hash.MaxPasswordBytes)
	case req.Role == "":
		return 0, validation("role is required")
	case !req.Role.Valid():
		return 0, validation("role must be admin or user")
	}
	fullName, err := normalizeFullName(req.FullName)
	if err != nil {
		return 0, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return 0, err
	}

	taken, err := s.Users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return 0, fmt.Errorf("check username: %w", err)
	}
	if taken {
		l.Warn("register_error", "status", 409, "reason", "username taken")
		return 0, fmt.Errorf("%w: username", ErrConflict)
	}
	if email != nil {
		taken, err := s.Users.EmailTaken(ctx, *email, 0)
		if err != nil {
			return 0, fmt.Errorf("check email: %w", err)
		}
		if taken {
			l.Warn("register_error", "status", 409, "reason", "email taken")
			return 0, fmt.Errorf("%w: email", ErrConflict)
		}
	}

	pwHash, err := s.Hasher.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         req.Role,
		FullName:     fullName,
		Email:        email,
	}
	if err := s.Users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, fmt.Errorf("%w: username or email", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return 0, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, idKey(user.ID),
		events.NewEvent("user_registered", "userId", user.ID, "username", user.Username, "role", user.Role))
	l.Info("register_success", "user_id", user.ID)
	return user.ID, nil
}

// Login never tells an unknown username apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Username == "" || req.Password == "" {
		s.Hasher.Equalize(req.Password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.Users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Hasher.Equalize(req.Password)
			l.Warn("login_failed", "status", 400, "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !s.Hasher.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(tokens.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
	})
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	publish(ctx, s.Events, events.TopicUsers, idKey(user.ID),
		events.NewEvent("user_logged_in", "userId", user.ID, "username", user.Username))
	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{Token: token, ExpiresAt: exp, User: *user}, nil
}

func normalizeEmail(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	email := strings.TrimSpace(*raw)
	if email == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(email) > transport.MaxEmailLen {
		return nil, validation("email is longer than %d characters", transport.MaxEmailLen)
	}
	if err := fieldCheck.Var(email, "email"); err != nil {
		return nil, validation("email is malformed")
	}
	email = strings.ToLower(email)
	return &email, nil
}

func normalizeFullName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > transport.MaxFullNameLen {
		return "", validation("fullName is longer than %d characters", transport.MaxFullNameLen)
	}
	return name, nil
}

func idKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }
