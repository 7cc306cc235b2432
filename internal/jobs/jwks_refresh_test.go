package jobs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tutorhub/gateway/internal/auth"
)

func TestFetchJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("keygen error: %v", err)
	}
	set := auth.JWKSet{Keys: []auth.JWK{{
		Kty: "RSA",
		Kid: "key-1",
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(set)
	}))
	defer server.Close()

	fetched, err := FetchJWKS(context.Background(), &http.Client{Timeout: 5 * time.Second}, server.URL)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(fetched.Keys) != 1 || fetched.Keys[0].Kid != "key-1" {
		t.Fatalf("unexpected key set: %+v", fetched)
	}
	if _, err := fetched.Keys[0].PublicKey(); err != nil {
		t.Fatalf("key conversion error: %v", err)
	}
}

func TestFetchJWKSBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := FetchJWKS(context.Background(), &http.Client{Timeout: 5 * time.Second}, server.URL); err == nil {
		t.Fatalf("expected non-200 to error")
	}
}
