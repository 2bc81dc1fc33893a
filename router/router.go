package router

import (
	"net/http"
	"sentinel-api/handler"
	"sentinel-api/service"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "sentinel-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, healthHandler *handler.HealthHandler, tokens *service.TokenService) http.Handler {
	mux := http.NewServeMux()

	auth := handler.AuthMiddleware(tokens, false, false)
	authRefresh := handler.AuthMiddleware(tokens, true, false)
	authFresh := handler.AuthMiddleware(tokens, false, true)

	// Public auth surface
	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/reset-password", handler.ErrorHandlingMiddleware(authHandler.RequestPasswordReset))
	mux.Handle("POST /auth/reset-password/confirm", handler.ErrorHandlingMiddleware(authHandler.ConfirmPasswordReset))

	// Token lifecycle
	mux.Handle("POST /auth/token/refresh", authRefresh(handler.ErrorHandlingMiddleware(authHandler.Refresh)))
	mux.Handle("POST /auth/logout", auth(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	mux.Handle("GET /auth/verify-token", auth(handler.ErrorHandlingMiddleware(authHandler.VerifyToken)))
	mux.Handle("GET /auth/token-status", auth(handler.ErrorHandlingMiddleware(authHandler.TokenStatus)))

	// Profile and account
	mux.Handle("GET /users/me", auth(handler.ErrorHandlingMiddleware(userHandler.GetProfile)))
	mux.Handle("PUT /users/me", auth(handler.ErrorHandlingMiddleware(userHandler.UpdateProfile)))
	mux.Handle("PUT /users/me/password", authFresh(handler.ErrorHandlingMiddleware(userHandler.ChangePassword)))
	mux.Handle("DELETE /users/{id}", authFresh(handler.ErrorHandlingMiddleware(userHandler.DeleteUser)))

	mux.HandleFunc("GET /health", healthHandler.Check)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mux
}
