package tokens

import (
	"context"
	"time"

	"unithrift-backend/internal/pkg/apperrors"
	"unithrift-backend/internal/pkg/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	accessTTL  = 24 * time.Hour
	refreshTTL = 30 * 24 * time.Hour

	refreshPrefix = "refresh:"
)

// Claims is the payload carried in every issued JWT.
type Claims struct {
	UserID    string `json:"user_id"`
	UserType  string `json:"user_type"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair returned to the client.
type Pair struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
	RefreshToken      string `json:"refresh_token"`
}

// Service issues and refreshes login tokens. Refresh tokens are kept in
// Redis with a TTL so a stolen refresh token can be invalidated by key
// deletion and expires on its own.
type Service struct {
	Secret string
	Rdb    *redis.Client
}

// IssuePair signs a bearer/refresh pair and registers the refresh token.
func (s *Service) IssuePair(ctx context.Context, userID, userType string) (*Pair, error) {
	access, accessExp, err := Sign(s.Secret, userID, userType, constants.TokenBearer, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := Sign(s.Secret, userID, userType, constants.TokenRefresh, refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.Rdb.Set(ctx, refreshPrefix+refresh, userID, refreshTTL).Err(); err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:       access,
		AccessTokenExpiry: accessExp.Unix(),
		RefreshToken:      refresh,
	}, nil
}

// Refresh verifies a refresh token against the store and issues a new
// access token. The refresh token itself is left valid until expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Pair, error) {
	claims, err := Verify(s.Secret, refreshToken)
	if err != nil || claims.TokenType != constants.TokenRefresh {
		return nil, apperrors.ErrTokenInvalid
	}
	n, err := s.Rdb.Exists(ctx, refreshPrefix+refreshToken).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.ErrTokenInvalid
	}
	access, accessExp, err := Sign(s.Secret, claims.UserID, claims.UserType, constants.TokenBearer, accessTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:       access,
		AccessTokenExpiry: accessExp.Unix(),
		RefreshToken:      refreshToken,
	}, nil
}

// Sign creates an HS256 JWT for the given user and token type.
func Sign(secret, userID, userType, tokenType string, ttl time.Duration) (string, time.Time, error) {
	expiry := time.Now().Add(ttl)
	claims := &Claims{
		UserID:    userID,
		UserType:  userType,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// Verify parses and validates a JWT, returning its claims.
func Verify(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}
