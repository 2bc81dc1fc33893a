package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/logger"
	"sentinel-api/model"
	"sentinel-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair is the login response body carrying both session tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService mints, verifies and revokes signed session tokens. Tokens are
// stateless except for the revocation check against the blocklist store.
type TokenService struct {
	blocklist  repository.IBlocklistRepository
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(blocklist repository.IBlocklistRepository, secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		blocklist:  blocklist,
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken mints an access token for the user. fresh must only be
// true when the caller has just verified the password.
func (s *TokenService) IssueAccessToken(userID string, fresh bool) (string, error) {
	return s.issue(userID, model.TokenTypeAccess, fresh, s.accessTTL)
}

// IssueRefreshToken mints a refresh token. Refresh tokens are never fresh.
func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.issue(userID, model.TokenTypeRefresh, false, s.refreshTTL)
}

func (s *TokenService) issue(userID, tokenType string, fresh bool, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &model.AppClaims{
		UserID:    userID,
		TokenType: tokenType,
		Fresh:     fresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// Verify validates a token string and returns its claims. Checks run in
// order and stop at the first failure: signature, expiry, token type,
// freshness, blocklist. Each failure carries its own reason so the handler
// layer can answer with the right 401 variant. A blocklist outage fails
// closed with store_unavailable.
func (s *TokenService) Verify(ctx context.Context, tokenString string, requireRefresh, requireFresh bool) (*model.AppClaims, *common.AppError) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonExpiredToken, "Token has expired", nil)
		}
		return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", err)
	}
	if !token.Valid {
		return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	if requireRefresh && claims.TokenType != model.TokenTypeRefresh {
		return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Refresh token required", nil)
	}

	if requireFresh && !claims.Fresh {
		return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInsufficientFreshness, "Fresh token required", nil)
	}

	revoked, err := s.blocklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, common.NewAppError(http.StatusServiceUnavailable, common.ReasonStoreUnavailable, "Authentication temporarily unavailable", err)
	}
	if revoked {
		return nil, common.NewAppError(http.StatusUnauthorized, common.ReasonRevokedToken, "Token has been revoked", nil)
	}

	return claims, nil
}

// Revoke blacklists the token's jti for the nominal lifetime of its type.
// A token revoked late in its life keeps its entry longer than strictly
// needed; expiry is checked independently in Verify, so the entry can only
// waste store space, never admit a token.
func (s *TokenService) Revoke(ctx context.Context, claims *model.AppClaims) error {
	ttl := s.accessTTL
	if claims.TokenType == model.TokenTypeRefresh {
		ttl = s.refreshTTL
	}

	if err := s.blocklist.Revoke(ctx, claims.ID, ttl); err != nil {
		return err
	}

	logger.Log.WithField("jti", claims.ID).Info("Token revoked")
	return nil
}

// IsRevoked exposes the blocklist lookup for the token-status endpoint.
func (s *TokenService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.blocklist.IsRevoked(ctx, jti)
}
