// Package tokens issues and verifies the signed identity tokens handed out at login.
//
// Tokens are stateless HS256 JWTs. A token stays valid until it expires even if the
// user's role changes or the account is deleted.
package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/smart_inventory/internal/models"
)

// ErrInvalidToken is the only error Verify returns. Callers must not be able to
// tell a malformed token from one signed with another key.
var ErrInvalidToken = errors.New("invalid token")

var ErrEmptySecret = errors.New("token secret is empty")

// Identity is what a verified token proves about its bearer.
type Identity struct {
	UserID   uint        `json:"userId"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	FullName string      `json:"fullName"`
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	FullName string      `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService copies the secret so later mutation by the caller has no effect.
// ttl <= 0 issues tokens without an expiry.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Service{secret: s, ttl: ttl, now: time.Now}, nil
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for id. The zero expiry is returned when tokens do not expire.
func (s *Service) Issue(id Identity) (string, time.Time, error) {
	if !id.Role.Valid() || id.Username == "" || id.UserID == 0 {
		return "", time.Time{}, errors.New("incomplete identity")
	}

	now := s.now().UTC()
	claims := Claims{
		Username: id.Username,
		Role:     id.Role,
		FullName: id.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	var exp time.Time
	if s.ttl > 0 {
		exp = now.Add(s.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (s *Service) Verify(tokenStr string) (*Identity, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	if s.ttl > 0 && claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   uint(userID),
		Username: claims.Username,
		Role:     claims.Role,
		FullName: claims.FullName,
	}, nil
}
