package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/go-library/auth"
	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

type user struct{ Name string }

func resolver(known map[string]*user) auth.ResolveFunc[*user] {
	return func(_ context.Context, sub string) (*user, error) {
		return known[sub], nil
	}
}

func TestUserFrom(t *testing.T) {
	ctx := auth.WithUser(context.Background(), &user{Name: "ana"})
	u, ok := auth.UserFrom[*user](ctx)
	if !ok || u.Name != "ana" {
		t.Errorf("UserFrom() = %v, %v", u, ok)
	}
	if _, ok := auth.UserFrom[string](ctx); ok {
		t.Error("wrong type should not match")
	}
	if u, ok := auth.UserFrom[*user](context.Background()); ok || u != nil {
		t.Error("anonymous context should yield nothing")
	}
}

func TestVerifier_HS256(t *testing.T) {
	v, err := auth.NewVerifier(auth.Config{Secret: secret})
	if err != nil {
		t.Fatal(err)
	}
	token, err := auth.SignHS256(secret, "sub-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "sub-1" {
		t.Errorf("Subject = %q", claims.Subject)
	}
}

func TestVerifier_Errors(t *testing.T) {
	v, _ := auth.NewVerifier(auth.Config{Secret: secret})
	expired, _ := auth.SignHS256(secret, "sub-1", -time.Minute)
	wrongKey, _ := auth.SignHS256("other", "sub-1", time.Minute)
	noSub, _ := auth.SignHS256(secret, "", time.Minute)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, auth.ErrTokenExpired},
		{"wrong key", wrongKey, auth.ErrInvalidToken},
		{"garbage", "not.a.token", auth.ErrInvalidToken},
		{"no subject", noSub, auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.token); !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewVerifier_RequiresKey(t *testing.T) {
	if _, err := auth.NewVerifier(auth.Config{}); err == nil {
		t.Error("expected error without secret or JWKS URL")
	}
}

func TestVerifier_JWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	fetches := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "k1",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	v, err := auth.NewVerifier(auth.Config{JWKSURL: srv.URL, Issuer: "https://issuer.test"})
	if err != nil {
		t.Fatal(err)
	}

	sign := func(kid, iss string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
			Subject:   "sub-rsa",
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		tok.Header["kid"] = kid
		s, err := tok.SignedString(key)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}

	claims, err := v.Verify(context.Background(), sign("k1", "https://issuer.test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "sub-rsa" {
		t.Errorf("Subject = %q", claims.Subject)
	}
	if _, err := v.Verify(context.Background(), sign("k1", "https://issuer.test")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 {
		t.Errorf("JWKS should be cached, fetched %d times", fetches)
	}

	if _, err := v.Verify(context.Background(), sign("k1", "https://evil.test")); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("wrong issuer should be rejected, got %v", err)
	}
	if _, err := v.Verify(context.Background(), sign("k2", "https://issuer.test")); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("unknown kid should be rejected, got %v", err)
	}

	hs, _ := auth.SignHS256(secret, "sub-rsa", time.Minute)
	if _, err := v.Verify(context.Background(), hs); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("HS256 token should be rejected by an RS256 verifier, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	v, _ := auth.NewVerifier(auth.Config{Secret: secret})
	known := map[string]*user{"sub-ana": {Name: "ana"}}
	valid, _ := auth.SignHS256(secret, "sub-ana", time.Minute)
	stranger, _ := auth.SignHS256(secret, "sub-nobody", time.Minute)
	expired, _ := auth.SignHS256(secret, "sub-ana", -time.Minute)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid", "Bearer " + valid, http.StatusOK, "ana"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "ana"},
		{"basic scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"invalid", "Bearer nope", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"unknown user", "Bearer " + stranger, http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := auth.Middleware(v, resolver(known))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if u, ok := auth.UserFrom[*user](r.Context()); ok {
					got = u.Name
				}
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestMiddleware_ExpiredCode(t *testing.T) {
	v, _ := auth.NewVerifier(auth.Config{Secret: secret})
	expired, _ := auth.SignHS256(secret, "sub-ana", -time.Minute)
	h := auth.Middleware(v, resolver(nil))(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body struct {
		Error string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "token_expired" {
		t.Errorf("error code = %q, want token_expired", body.Error)
	}
}
