package auth

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

func TestAuthMiddleware(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t) // Reusing helper from token_test.go
	signer, _ := NewSigner(privPEM, pubPEM, "")

	userID := uuid.New()
	tok, _ := signer.GenerateToken(userID, "alice")

	interceptor := NewAuthInterceptor(signer)
	dummyHandler := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		id, ok := GetUserID(ctx)
		if !ok || id != userID {
			t.Errorf("Context missing correct UserID. Got %v, want %s", id, userID)
		}
		claims, ok := GetUserClaims(ctx)
		if !ok || claims.Handle != "alice" {
			t.Errorf("Context missing claims. Got %v", claims)
		}
		return connect.NewResponse(&struct{}{}), nil
	}

	// 1. Test Valid Request
	req := connect.NewRequest(&struct{}{})
	req.Header().Set("Authorization", "Bearer "+tok.AccessToken)

	_, err := interceptor(dummyHandler)(context.Background(), req)
	if err != nil {
		t.Errorf("Unexpected error on valid request: %v", err)
	}

	// 2. Test Missing Header
	reqMissing := connect.NewRequest(&struct{}{})
	_, err = interceptor(dummyHandler)(context.Background(), reqMissing)
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("Expected unauthenticated for missing header, got %v", err)
	}

	// 3. Test Invalid Header Format
	reqBadFormat := connect.NewRequest(&struct{}{})
	reqBadFormat.Header().Set("Authorization", tok.AccessToken) // Missing "Bearer "
	_, err = interceptor(dummyHandler)(context.Background(), reqBadFormat)
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("Expected unauthenticated for bad header format, got %v", err)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t)
	signer, _ := NewSigner(privPEM, pubPEM, "")
	interceptor := NewOptionalAuthInterceptor(signer)

	var sawUser bool
	handler := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		_, sawUser = GetUserID(ctx)
		return connect.NewResponse(&struct{}{}), nil
	}

	t.Run("anonymous passes through", func(t *testing.T) {
		_, err := interceptor(handler)(context.Background(), connect.NewRequest(&struct{}{}))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if sawUser {
			t.Error("anonymous request should carry no user")
		}
	})

	t.Run("valid token injects user", func(t *testing.T) {
		tok, _ := signer.GenerateToken(uuid.New(), "bob")
		req := connect.NewRequest(&struct{}{})
		req.Header().Set("Authorization", "Bearer "+tok.AccessToken)
		_, err := interceptor(handler)(context.Background(), req)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !sawUser {
			t.Error("expected user in context")
		}
	})

	t.Run("bad token is rejected", func(t *testing.T) {
		req := connect.NewRequest(&struct{}{})
		req.Header().Set("Authorization", "Bearer garbage")
		_, err := interceptor(handler)(context.Background(), req)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("Expected unauthenticated, got %v", err)
		}
	})
}

func TestMustGetUserID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic without user")
		}
	}()
	MustGetUserID(context.Background())
}
