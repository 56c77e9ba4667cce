// Package middleware provides Connect interceptors for the CrewLedger RPC
// surface: JWT authentication, request logging, and prometheus metrics.
package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/crewledger/crewledger/internal/auth"
)

// contextKey is a private type so context values cannot collide.
type contextKey string

const (
	// UserIDKey carries the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey carries the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID returns the authenticated user ID, or "" before auth.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail returns the authenticated user's email, or "" before auth.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// RequireAuth returns an interceptor that rejects requests without a valid
// Bearer token and enriches the context with the caller's identity.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			return next(ctx, req)
		}
	}
}
