package identity

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

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
)

const (
	testIssuer   = "https://login.test"
	testAudience = "course-genius"
	testSecret   = "test-shared-secret"
)

func hs256Token(t *testing.T, mutate func(claims jwt.MapClaims)) string {
	t.Helper()

	claims := jwt.MapClaims{
		"iss":   testIssuer,
		"aud":   testAudience,
		"sub":   uuid.New().String(),
		"email": "student@example.edu",
		"name":  "Test Student",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func hs256Verifier(t *testing.T) *ProviderVerifier {
	t.Helper()

	v, err := NewProviderVerifier(Config{
		Issuer:   testIssuer,
		Audience: testAudience,
		Secret:   testSecret,
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func TestVerifyHS256(t *testing.T) {
	v := hs256Verifier(t)
	subject := uuid.New()

	token := hs256Token(t, func(claims jwt.MapClaims) {
		claims["sub"] = subject.String()
	})

	ident, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.ID != subject {
		t.Errorf("ID = %v, want %v", ident.ID, subject)
	}
	if ident.Email != "student@example.edu" {
		t.Errorf("Email = %q", ident.Email)
	}
	if ident.DisplayName != "Test Student" {
		t.Errorf("DisplayName = %q", ident.DisplayName)
	}
}

func TestVerifyRejections(t *testing.T) {
	v := hs256Verifier(t)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name: "expired token",
			token: hs256Token(t, func(claims jwt.MapClaims) {
				claims["exp"] = time.Now().Add(-time.Hour).Unix()
			}),
			wantErr: apperrors.ErrTokenExpired,
		},
		{
			name: "wrong issuer",
			token: hs256Token(t, func(claims jwt.MapClaims) {
				claims["iss"] = "https://somewhere-else.test"
			}),
			wantErr: apperrors.ErrTokenInvalid,
		},
		{
			name: "wrong audience",
			token: hs256Token(t, func(claims jwt.MapClaims) {
				claims["aud"] = "another-app"
			}),
			wantErr: apperrors.ErrTokenInvalid,
		},
		{
			name: "missing expiry",
			token: hs256Token(t, func(claims jwt.MapClaims) {
				delete(claims, "exp")
			}),
			wantErr: apperrors.ErrTokenInvalid,
		},
		{
			name: "non-uuid subject",
			token: hs256Token(t, func(claims jwt.MapClaims) {
				claims["sub"] = "user-42"
			}),
			wantErr: apperrors.ErrTokenInvalid,
		},
		{
			name:    "garbage token",
			token:   "not.a.token",
			wantErr: apperrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := hs256Verifier(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testIssuer,
		"aud": testAudience,
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("a-different-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(context.Background(), signed); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRS256ViaJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	jwks := JWKSet{Keys: []JWK{{
		Kty: "RSA",
		Kid: "key-1",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jwks)
	}))
	defer srv.Close()

	v, err := NewProviderVerifier(Config{
		Issuer:  testIssuer,
		JWKSURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	subject := uuid.New()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   testIssuer,
		"sub":   subject.String(),
		"email": "student@example.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	ident, err := v.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.ID != subject {
		t.Errorf("ID = %v, want %v", ident.ID, subject)
	}
}

func TestVerifyRS256UnknownKid(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(JWKSet{Keys: []JWK{{
			Kty: "RSA",
			Kid: "key-1",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	v, err := NewProviderVerifier(Config{Issuer: testIssuer, JWKSURL: srv.URL})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": testIssuer,
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "rotated-away"
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(context.Background(), signed); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

func TestNewProviderVerifierConfig(t *testing.T) {
	if _, err := NewProviderVerifier(Config{Secret: "s"}); err == nil {
		t.Error("expected error for missing issuer")
	}
	if _, err := NewProviderVerifier(Config{Issuer: testIssuer}); err == nil {
		t.Error("expected error for missing key material")
	}
}
