package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string { return string(r) }

// ParseRole is strict: no case folding, no trimming.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:64" json:"username"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Role         Role      `gorm:"not null;size:16"            json:"role"`
	FullName     string    `gorm:"size:128"                    json:"fullName"`
	Email        *string   `gorm:"uniqueIndex;size:254"        json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Item struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null;size:255"        json:"name"`
	Quantity    int       `gorm:"not null"                 json:"quantity"`
	Description string    `gorm:"size:1024"                json:"description"`
	Threshold   int       `gorm:"not null;default:0"       json:"threshold"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return "inventory_items" }

// LowStock reports whether the item is at or under its restock threshold.
func (i Item) LowStock() bool {
	return i.Quantity <= i.Threshold
}

// All lists every table the service owns, for AutoMigrate.
func All() []any {
	return []any{&User{}, &Item{}}
}
