package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is a startup configuration error. The service must
	// refuse to run rather than fall back to some implicit secret.
	ErrMissingSecret = errors.New("jwtx: signing secret is required")

	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpired      = errors.New("jwtx: token expired")
)

// Verifier validates a bearer token and gives back the claims if it's
// legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Codec signs and verifies bearer tokens with a single server-held HMAC
// secret (HS256).
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec builds an HS256 codec. An empty secret is a fatal
// configuration error, returned as ErrMissingSecret.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the issuer claim this codec signs and enforces.
func (c *Codec) Issuer() string { return c.issuer }

// Sign produces a compact signed token for the claims.
func (c *Codec) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a token: signature, well-formedness,
// issuer, and expiry. Anything other than expiry collapses into
// ErrInvalidToken so callers can't probe failure modes.
func (c *Codec) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
