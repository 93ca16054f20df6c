// Package auth provides password hashing and JWT issuance/verification
// shared by the API handlers and middleware.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	appErr "github.com/langchain-flow/engine/pkg/errors"
)

const bcryptCost = 12

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// HashPassword derives a salted bcrypt hash. Deliberately slow.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	return string(h), nil
}

// ComparePassword reports whether password matches the stored hash.
func ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenPair is what every successful auth response carries. Access and
// refresh tokens share one payload but expire independently.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// TokenManager signs and verifies HMAC-SHA256 JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Generate signs a token for the given identity with the given lifetime.
func (m *TokenManager) Generate(userID uuid.UUID, username string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}

// GeneratePair issues an access/refresh pair with identical claims and
// independent expirations.
func (m *TokenManager) GeneratePair(userID uuid.UUID, username string) (*TokenPair, error) {
	access, err := m.Generate(userID, username, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.Generate(userID, username, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// Verify parses and validates a token. Expired or tampered tokens fail with
// an unauthorized error; the message never distinguishes why.
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, appErr.New(appErr.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}

// Decode extracts claims without checking the signature. Best effort;
// returns nil for anything unparsable. Never use for authentication.
func (m *TokenManager) Decode(tokenStr string) *Claims {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil
	}
	return claims
}
