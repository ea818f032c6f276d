package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleKantin     = "kantin"
	RoleSuperAdmin = "superadmin"

	DefaultTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrSecretNotConfigured = errors.New("JWT secret tidak dikonfigurasi")
	ErrInvalidToken        = errors.New("Token tidak valid")
)

type CustomClaims struct {
	KantinID string `json:"kantinId,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer menandatangani dan memverifikasi token HS256.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Configured() bool {
	return t != nil && len(t.secret) > 0
}

// GenerateToken membuat token untuk kantin atau super admin.
// subject berisi kantinId untuk kantin dan username untuk super admin.
func (t *TokenIssuer) GenerateToken(subject, email, role string) (string, error) {
	if !t.Configured() {
		return "", ErrSecretNotConfigured
	}

	now := t.now()
	claims := &CustomClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Issuer:    "ekantin",
		},
	}
	if role == RoleKantin {
		claims.KantinID = subject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) ParseToken(tokenString string) (*CustomClaims, error) {
	if !t.Configured() {
		return nil, ErrSecretNotConfigured
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	if claims.Role == RoleKantin && claims.KantinID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
