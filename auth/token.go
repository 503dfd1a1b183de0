package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the access token claims the API relies on. Subject is the
// identity provider's user id.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// Config configures a Verifier. With Secret set, tokens are HS256 signed
// with it. Otherwise RS256 keys are read from JWKSURL.
type Config struct {
	Issuer     string
	Audience   string
	JWKSURL    string
	Secret     string
	HTTPClient *http.Client
	CacheTTL   time.Duration

	// MinRefreshInterval bounds how often unknown key ids trigger a JWKS
	// fetch. Defaults to 12s, five fetches a minute.
	MinRefreshInterval time.Duration
}

// Verifier validates access tokens.
type Verifier struct {
	cfg    Config
	method jwt.SigningMethod
	keys   *keySet
}

// NewVerifier creates a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret != "" {
		return &Verifier{cfg: cfg, method: jwt.SigningMethodHS256}, nil
	}
	if cfg.JWKSURL == "" {
		return nil, errors.New("auth: secret or JWKS URL required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.MinRefreshInterval <= 0 {
		cfg.MinRefreshInterval = 12 * time.Second
	}
	return &Verifier{
		cfg:    cfg,
		method: jwt.SigningMethodRS256,
		keys:   newKeySet(cfg.JWKSURL, cfg.HTTPClient, cfg.CacheTTL, cfg.MinRefreshInterval),
	}, nil
}

// Verify parses raw and checks signature, expiry and, when configured,
// issuer and audience.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keyFunc(ctx), v.parserOptions()...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != v.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		if v.keys == nil {
			return []byte(v.cfg.Secret), nil
		}
		kid, _ := token.Header["kid"].(string)
		return v.keys.get(ctx, kid)
	}
}

func (v *Verifier) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}
	return opts
}

// SignHS256 issues a token for subject, valid for ttl. It backs local
// development and tests, where no identity provider is running.
func SignHS256(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}
