// Package jwttest builds request contexts carrying verified access-token claims.
package jwttest

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Context returns ctx with the claims jwtauth.Verifier would store for subject.
func Context(t testing.TB, ctx context.Context, subject jwt.Subject) context.Context {
	t.Helper()

	svc, err := jwt.NewJWTService("jwttest-secret", "1h", "24h", nil)
	if err != nil {
		t.Fatalf("jwttest: %v", err)
	}
	token, _, err := svc.GenerateAccessToken(subject)
	if err != nil {
		t.Fatalf("jwttest: %v", err)
	}
	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	if err != nil {
		t.Fatalf("jwttest: %v", err)
	}
	return jwtauth.NewContext(ctx, decoded, nil)
}

func Employee(t testing.TB, userID string, teamID *string) context.Context {
	return Context(t, context.Background(), jwt.Subject{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   user.RoleEmployee,
		TeamID: teamID,
	})
}

func Admin(t testing.TB, userID string) context.Context {
	return Context(t, context.Background(), jwt.Subject{
		UserID: userID,
		Email:  userID + "@example.com",
		Role:   user.RoleAdmin,
	})
}
