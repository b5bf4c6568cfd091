package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/smart_inventory/internal/events"
	"github.com/Skotchmaster/smart_inventory/internal/models"
	"github.com/Skotchmaster/smart_inventory/internal/repo"
	"github.com/Skotchmaster/smart_inventory/internal/tokens"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
)

type UserService struct {
	Users  UserStore
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies req to user id on behalf of actor. The route gate has already
// checked self-or-admin; changing a role additionally needs admin.
func (s *UserService) Update(ctx context.Context, actor *tokens.Identity, id uint, req transport.PatchUserRequest) (*models.User, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, ErrForbidden
	}
	if req.Role != nil && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can change roles", ErrForbidden)
	}

	var patch repo.UserPatch
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, validation("username must not be empty")
		}
		if len(username) > transport.MaxUsernameLen {
			return nil, validation("username is longer than %d characters", transport.MaxUsernameLen)
		}
		taken, err := s.Users.UsernameTaken(ctx, username, id)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: username", ErrConflict)
		}
		patch.Username = &username
	}
	if req.FullName != nil {
		fullName, err := normalizeFullName(*req.FullName)
		if err != nil {
			return nil, err
		}
		patch.FullName = &fullName
	}
	if req.Email != nil {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != nil {
			taken, err := s.Users.EmailTaken(ctx, *email, id)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("%w: email", ErrConflict)
			}
		}
		patch.Email = &email
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, validation("role must be admin or user")
		}
		patch.Role = req.Role
	}

	user, err := s.Users.UpdateUser(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			return nil, fmt.Errorf("%w: username or email", ErrConflict)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if patch.Empty() {
		return user, nil
	}

	publish(ctx, s.Events, events.TopicUsers, idKey(user.ID),
		events.NewEvent("user_updated", "userId", user.ID, "by", actor.UserID, "role", user.Role))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	publish(ctx, s.Events, events.TopicUsers, idKey(id), events.NewEvent("user_deleted", "userId", id))
	return nil
}
