package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

const tokenKeyPrefix = "salesbook:token:"

// Claims carried by an access token. RegisteredClaims.ID is the revocation handle.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager signs HS256 access tokens and tracks the live ones in Redis so they can be
// revoked before they expire.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	redis  redis.Cmdable
	now    func() time.Time
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client redis.Cmdable, secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: "salesbook",
		ttl:    ttl,
		redis:  client,
		now:    time.Now,
	}
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID and records it as live.
func (m *TokenManager) Issue(ctx context.Context, userID int64) (IssuedToken, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}
	if err := m.redis.Set(ctx, tokenKeyPrefix+claims.ID, userID, m.ttl).Err(); err != nil {
		return IssuedToken{}, fmt.Errorf("store token: %w", err)
	}
	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, expiry and that the token has not been revoked.
func (m *TokenManager) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, shared.ErrInvalidToken
	}

	n, err := m.redis.Exists(ctx, tokenKeyPrefix+claims.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if n == 0 {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}

// Revoke invalidates a live token.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.Verify(ctx, token)
	if err != nil {
		return err
	}
	if err := m.redis.Del(ctx, tokenKeyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(token), nil
}
