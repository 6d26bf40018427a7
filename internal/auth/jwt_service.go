package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solvento/hrcore/internal/models"
	apperrors "github.com/solvento/hrcore/pkg/errors"
)

// JWTConfig configures token issuing and validation.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration

	// Clock is overridable for tests; defaults to time.Now.
	Clock func() time.Time
}

// Claims is the payload carried by access tokens.
type Claims struct {
	UserID uint        `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	cfg JWTConfig
}

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &JWTService{cfg: cfg}, nil
}

// GenerateAccessToken issues a signed token for the user.
func (s *JWTService) GenerateAccessToken(user *models.User) (string, error) {
	now := s.cfg.Clock()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies a token, returning its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
		jwt.WithTimeFunc(s.cfg.Clock),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized.WithInternal(err)
	}
	return claims, nil
}
