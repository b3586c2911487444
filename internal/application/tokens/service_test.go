package tokens

import (
	"context"
	"testing"
	"time"

	"unithrift-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func setupTokensTest(t *testing.T) *Service {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Service{Secret: testSecret, Rdb: rdb}
}

func TestIssuePair_RoundTrip(t *testing.T) {
	svc := setupTokensTest(t)
	userID := uuid.New().String()

	pair, err := svc.IssuePair(context.Background(), userID, constants.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Greater(t, pair.AccessTokenExpiry, time.Now().Unix())

	claims, err := Verify(testSecret, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, constants.RoleStudent, claims.UserType)
	assert.Equal(t, constants.TokenBearer, claims.TokenType)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := setupTokensTest(t)
	pair, err := svc.IssuePair(context.Background(), uuid.New().String(), constants.RoleStudent)
	require.NoError(t, err)

	_, err = Verify("other-secret", pair.AccessToken)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	signed, _, err := Sign(testSecret, uuid.New().String(), constants.RoleStudent, constants.TokenBearer, -time.Minute)
	require.NoError(t, err)

	_, err = Verify(testSecret, signed)
	assert.Error(t, err)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	svc := setupTokensTest(t)
	userID := uuid.New().String()
	pair, err := svc.IssuePair(context.Background(), userID, constants.RoleStudent)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)

	claims, err := Verify(testSecret, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, constants.TokenBearer, claims.TokenType)
}

func TestRefresh_AccessTokenRefused(t *testing.T) {
	svc := setupTokensTest(t)
	pair, err := svc.IssuePair(context.Background(), uuid.New().String(), constants.RoleStudent)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.Error(t, err)
}

func TestRefresh_UnknownTokenRefused(t *testing.T) {
	svc := setupTokensTest(t)
	// Valid signature but never stored in Redis.
	signed, _, err := Sign(testSecret, uuid.New().String(), constants.RoleStudent, constants.TokenRefresh, time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), signed)
	assert.Error(t, err)
}
