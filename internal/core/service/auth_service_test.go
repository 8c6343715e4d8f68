package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/task-system/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthFixture() (*AuthService, *stubUserRepo) {
	users := newStubUserRepo()
	svc := NewAuthService(users, stubHasher{}, testSecret, time.Hour)
	return svc, users
}

func TestAuthService_Login(t *testing.T) {
	svc, users := newAuthFixture()
	account := users.mustAdd(&domain.User{
		Username:     "alice",
		Role:         domain.RoleManager,
		PasswordHash: "hashed:s3cret",
	})

	token, user, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != account.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != account.ID || claims["username"] != "alice" || claims["role"] != "manager" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		t.Fatalf("missing or stale exp claim: %v", claims["exp"])
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, users := newAuthFixture()
	users.mustAdd(&domain.User{Username: "alice", Role: domain.RoleUser, PasswordHash: "hashed:s3cret"})

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown username", "ghost", "s3cret"},
		{"empty username", "", "s3cret"},
		{"empty password", "alice", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Every failure mode gets the same answer.
			if _, _, err := svc.Login(context.Background(), tc.username, tc.password); err != domain.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_TokenRejectedWithWrongSecret(t *testing.T) {
	svc, users := newAuthFixture()
	users.mustAdd(&domain.User{Username: "alice", Role: domain.RoleUser, PasswordHash: "hashed:s3cret"})

	token, _, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	_, err = jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatalf("token verified under the wrong secret")
	}
}
