package transport

import (
	"time"

	"github.com/Skotchmaster/smart_inventory/internal/models"
)

// Field bounds shared by the request tags below and the service checks.
const (
	MaxUsernameLen    = 64
	MaxFullNameLen    = 128
	MaxEmailLen       = 254
	MaxItemNameLen    = 255
	MaxDescriptionLen = 1024
)

type RegisterRequest struct {
	Username string      `json:"username" validate:"required,max=64"`
	Password string      `json:"password" validate:"required,max=72"`
	Role     models.Role `json:"role" validate:"required,oneof=admin user"`
	FullName string      `json:"fullName" validate:"max=128"`
	Email    *string     `json:"email" validate:"omitempty,max=254"`
}

type RegisterResponse struct {
	UserID uint `json:"userId"`
}

// LoginRequest carries no tags: every login failure answers invalid_credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	FullName  string      `json:"fullName"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Quantity    *int   `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=1024"`
	Threshold   *int   `json:"threshold" validate:"omitempty,gte=0"`
}

type PatchItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gt=0"`
	Description *string `json:"description" validate:"omitempty,max=1024"`
	Threshold   *int    `json:"threshold" validate:"omitempty,gte=0"`
}

type ItemResponse struct {
	Message string      `json:"message"`
	Item    models.Item `json:"item"`
}

// PatchUserRequest leaves role unchecked here so that a non-admin asking for a
// role change is refused as forbidden before its value is looked at.
type PatchUserRequest struct {
	Username *string      `json:"username" validate:"omitempty,max=64"`
	FullName *string      `json:"fullName" validate:"omitempty,max=128"`
	Email    *string      `json:"email" validate:"omitempty,max=254"`
	Role     *models.Role `json:"role"`
}

type UserResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse puts the readable text in "error" and the machine kind in "kind".
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}
