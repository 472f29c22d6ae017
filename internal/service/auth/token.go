package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// minSecretLength is the shortest HMAC key accepted for signing cookies.
const minSecretLength = 32

// TokenClaims is what a session cookie carries.
type TokenClaims struct {
	SessionID uuid.UUID
	UserID    int64
	ExpiresAt time.Time
}

// TokenSigner signs and verifies session cookie values with HMAC-SHA256.
// The cookie value only names a session; the session record itself lives
// server side.
type TokenSigner struct {
	signingKey []byte
	timeFunc   func() time.Time
}

// NewTokenSigner creates a TokenSigner keyed by secret.
func NewTokenSigner(secret string) (*TokenSigner, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &TokenSigner{
		signingKey: []byte(secret),
		timeFunc:   time.Now,
	}, nil
}

// Sign returns the signed cookie value for the given claims.
func (s *TokenSigner) Sign(claims TokenClaims) (string, error) {
	registered := jwt.RegisteredClaims{
		ID:        claims.SessionID.String(),
		Subject:   strconv.FormatInt(claims.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(s.timeFunc()),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registered)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a cookie value.
func (s *TokenSigner) Verify(ctx context.Context, tokenString string) (*TokenClaims, error) {
	return s.parse(ctx, tokenString,
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
}

// VerifySignature checks only the signature, so an expired cookie still
// names its session. Used for logout.
func (s *TokenSigner) VerifySignature(ctx context.Context, tokenString string) (*TokenClaims, error) {
	return s.parse(ctx, tokenString, jwt.WithoutClaimsValidation())
}

func (s *TokenSigner) parse(ctx context.Context, tokenString string, opts ...jwt.ParserOption) (*TokenClaims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("session token expired")
			return nil, ErrExpiredToken
		}
		log.Debug("session token rejected", "error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	sessionID, err := uuid.Parse(registered.ID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(registered.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}

	claims := &TokenClaims{SessionID: sessionID, UserID: userID}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}
