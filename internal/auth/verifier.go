package auth

import (
	"crypto/rsa"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates session tokens issued by the external identity
// provider. Keys are replaceable at runtime because the provider
// rotates its JWKS.
type Verifier struct {
	issuer string

	mu         sync.RWMutex
	defaultKey *rsa.PublicKey
	keysByKid  map[string]*rsa.PublicKey
}

func NewVerifier(issuer string) *Verifier {
	return &Verifier{
		issuer:    issuer,
		keysByKid: map[string]*rsa.PublicKey{},
	}
}

func (v *Verifier) SetStaticKey(publicKey *rsa.PublicKey) {
	v.mu.Lock()
	v.defaultKey = publicKey
	v.mu.Unlock()
}

func (v *Verifier) SetKeys(set JWKSet) error {
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	var first *rsa.PublicKey
	for _, jwk := range set.Keys {
		publicKey, err := jwk.PublicKey()
		if err != nil {
			return err
		}
		keys[jwk.Kid] = publicKey
		if first == nil {
			first = publicKey
		}
	}
	v.mu.Lock()
	v.keysByKid = keys
	if v.defaultKey == nil {
		v.defaultKey = first
	}
	v.mu.Unlock()
	return nil
}

func (v *Verifier) Verify(tokenString string) (Identity, error) {
	claims, err := ParseToken(v.keyFunc, v.issuer, tokenString)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if kid, ok := token.Header["kid"].(string); ok {
		if key, found := v.keysByKid[kid]; found {
			return key, nil
		}
	}
	if v.defaultKey == nil {
		return nil, errors.New("missing_public_key")
	}
	return v.defaultKey, nil
}
