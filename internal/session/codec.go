package session

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	// CookieName is the cookie carrying the signed session token.
	CookieName = "imds_session"
	// MaxAge bounds both the cookie lifetime and the token expiry.
	MaxAge = 8 * time.Hour
	// Label separates session tokens from anything else signed with the same secret.
	Label = "imds.session-cookie"
)

// ErrInvalid covers every verification failure: malformed, forged, or expired tokens.
var ErrInvalid = errors.New("invalid session token")

// Identity is the payload recovered from a verified token.
type Identity struct {
	Username string
}

// Codec issues and verifies stateless session tokens.
type Codec interface {
	Issue(username string) (string, error)
	Verify(token string) (Identity, error)
}

type claims struct {
	User *string `json:"u"`
	jwt.RegisteredClaims
}

// JWTCodec signs tokens with HS256 under a key derived from the server secret.
type JWTCodec struct {
	key    []byte
	maxAge time.Duration
	now    func() time.Time
}

// Option customizes a JWTCodec.
type Option func(*JWTCodec)

// WithMaxAge overrides the token lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(c *JWTCodec) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec derives the signing key from secret and returns a codec. An empty secret is rejected.
func NewCodec(secret string, opts ...Option) (*JWTCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	key, err := deriveKey([]byte(secret), Label)
	if err != nil {
		return nil, err
	}
	c := &JWTCodec{key: key, maxAge: MaxAge, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func deriveKey(secret []byte, label string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(label)), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// Issue returns a signed token for username.
func (c *JWTCodec) Issue(username string) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		User: &username,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{Label},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, audience, and expiry. Any failure yields ErrInvalid.
func (c *JWTCodec) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalid
	}
	var parsed claims
	tok, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Label),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalid
	}
	if parsed.User == nil {
		return Identity{}, ErrInvalid
	}
	return Identity{Username: *parsed.User}, nil
}

// CheckCredentials compares trimmed submitted credentials against the configured pair.
// This is a demo placeholder: plain constants, no hashing, no lockout.
func CheckCredentials(username, password, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(password)), []byte(wantPass)) == 1
	return userOK && passOK
}
