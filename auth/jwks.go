package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// keySet caches the RSA signing keys published at a JWKS endpoint. Fetches
// are at least minInterval apart, and concurrent refreshes share one fetch.
type keySet struct {
	uri         string
	client      *http.Client
	ttl         time.Duration
	minInterval time.Duration
	fetches     singleflight.Group

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	lastAttempt time.Time
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func newKeySet(uri string, client *http.Client, ttl, minInterval time.Duration) *keySet {
	return &keySet{uri: uri, client: client, ttl: ttl, minInterval: minInterval}
}

// get returns the key for kid, refreshing the set when it is stale or
// does not contain kid. Within minInterval of the last fetch the cached set
// is used as is.
func (s *keySet) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if k, ok := s.cached(kid); ok {
		return k, nil
	}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("key %q not found in JWKS", kid)
	}
	return k, nil
}

func (s *keySet) cached(kid string) (*rsa.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.keys == nil || time.Since(s.fetchedAt) > s.ttl {
		return nil, false
	}
	k, ok := s.keys[kid]
	return k, ok
}

func (s *keySet) refresh(ctx context.Context) error {
	_, err, _ := s.fetches.Do("jwks", func() (any, error) {
		s.mu.Lock()
		if !s.lastAttempt.IsZero() && time.Since(s.lastAttempt) < s.minInterval {
			s.mu.Unlock()
			return nil, nil
		}
		s.lastAttempt = time.Now()
		s.mu.Unlock()
		return nil, s.fetch(ctx)
	})
	return err
}

func (s *keySet) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.uri, http.NoBody)
	if err != nil {
		return fmt.Errorf("create JWKS request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("JWKS returned %d: %s", resp.StatusCode, string(body))
	}

	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		pub, err := k.rsaPublicKey()
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("kid", k.Kid).Msg("skipping malformed JWKS key")
			continue
		}
		keys[k.Kid] = pub
	}

	s.mu.Lock()
	s.keys = keys
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (k *jwk) rsaPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode RSA N: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode RSA E: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
