package handler

import (
	"context"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/model"
	"sentinel-api/service"
	"strings"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	ClaimsKey contextKey = "claims"
)

// AuthMiddleware verifies the bearer token on the request and stores the
// claims in the request context. requireRefresh gates refresh-only routes;
// requireFresh gates sensitive operations that must not accept tokens
// obtained through a refresh.
func AuthMiddleware(tokens *service.TokenService, requireRefresh, requireFresh bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				appErr := common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Authorization token is required", nil)
				appErr.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				appErr := common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid authorization header format", nil)
				appErr.Send(w)
				return
			}

			claims, appErr := tokens.Verify(r.Context(), headerParts[1], requireRefresh, requireFresh)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims placed by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*model.AppClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.AppClaims)
	return claims, ok
}
