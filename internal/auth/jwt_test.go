// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/animerec/internal/config"
)

const testSecret = "test-secret-key-that-is-long-enough-for-hs256"

func newTestManager(t *testing.T, issuer string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, JWTIssuer: issuer, TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("NewJWTManager() with empty secret error = nil")
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "animerec")
	token, err := m.GenerateToken("user-42")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID() != "user-42" {
		t.Errorf("UserID() = %q, want user-42", claims.UserID())
	}
	if claims.Issuer != "animerec" {
		t.Errorf("Issuer = %q, want animerec", claims.Issuer)
	}

	if _, err := m.GenerateToken(""); err == nil {
		t.Error("GenerateToken(\"\") error = nil")
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "animerec")
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "animerec",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	noSubject := valid
	noSubject.Subject = ""

	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: signClaims(t, jwt.SigningMethodHS256, []byte("another-secret-that-is-also-long-enough"), valid)},
		{name: "expired", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{name: "missing subject", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject)},
		{name: "wrong issuer", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{name: "no expiry", token: signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noExpiry)},
		{name: "hs512 not accepted", token: signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), valid)},
		{name: "alg none", token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.ValidateToken(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
