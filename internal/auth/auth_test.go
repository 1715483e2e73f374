package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestVerifyRoundTrip(t *testing.T) {
	v, err := NewHMACVerifier("s3cret", "eqcoach-idp")
	if err != nil {
		t.Fatalf("NewHMACVerifier: %v", err)
	}

	token, err := v.Issue("user-42", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sub, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-42" {
		t.Errorf("subject = %q, want user-42", sub)
	}
}

func TestVerifyRejects(t *testing.T) {
	v, _ := NewHMACVerifier("s3cret", "eqcoach-idp")
	other, _ := NewHMACVerifier("different", "eqcoach-idp")
	wrongIssuer, _ := NewHMACVerifier("s3cret", "someone-else")

	expired, _ := v.Issue("user-1", -time.Minute)
	badSig, _ := other.Issue("user-1", time.Hour)
	badIss, _ := wrongIssuer.Issue("user-1", time.Hour)
	noSub, _ := v.Issue("", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: badSig},
		{name: "wrong issuer", token: badIss},
		{name: "no subject", token: noSub},
		{name: "alg none", token: none},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tc.token)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Verify err = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestNewHMACVerifierRequiresSecret(t *testing.T) {
	if _, err := NewHMACVerifier("", ""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user on empty context")
	}
	ctx := WithUser(context.Background(), "user-7")
	id, ok := UserFromContext(ctx)
	if !ok || id != "user-7" {
		t.Errorf("UserFromContext = %q, %v", id, ok)
	}
}
