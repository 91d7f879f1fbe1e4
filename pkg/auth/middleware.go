package auth

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

type contextKey string

const (
	tokenHeader              = "Authorization"
	tokenPrefix              = "Bearer "
	UserClaimsKey contextKey = "user_claims"
	UserIDKey     contextKey = "user_id"
)

// NewAuthInterceptor rejects requests without a valid bearer token.
func NewAuthInterceptor(signer *Signer) connect.UnaryInterceptorFunc {
	return newInterceptor(signer, true)
}

// NewOptionalAuthInterceptor injects the caller identity when a token is
// present and lets anonymous requests through. A malformed or expired token
// is still rejected.
func NewOptionalAuthInterceptor(signer *Signer) connect.UnaryInterceptorFunc {
	return newInterceptor(signer, false)
}

func newInterceptor(signer *Signer, required bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get(tokenHeader)
			if authHeader == "" {
				if required {
					return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("missing authorization header"))
				}
				return next(ctx, req)
			}

			if !strings.HasPrefix(authHeader, tokenPrefix) {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid authorization header format"))
			}

			claims, err := signer.ValidateToken(strings.TrimPrefix(authHeader, tokenPrefix))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid or expired token"))
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}

// WithClaims stores the identity in ctx
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	userID, _ := claims.UserID()
	ctx = context.WithValue(ctx, UserClaimsKey, claims)
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserClaims retrieves the full claims from the context.
func GetUserClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// GetUserID retrieves the caller's user ID from the context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// MustGetUserID is for handlers mounted behind NewAuthInterceptor.
func MustGetUserID(ctx context.Context) uuid.UUID {
	id, ok := GetUserID(ctx)
	if !ok {
		panic("auth: no user in context; handler is missing the auth interceptor")
	}
	return id
}
