package auth

import (
	"errors"
	"slices"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims describes the JWT payload. Subject is carried in "sub".
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// NewClaims builds claims for a subject and its roles.
func NewClaims(subjectID string, roles []string) Claims {
	return Claims{
		Roles:            roles,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subjectID},
	}
}

// IssuedToken is a signed access token and the timestamps it carries.
type IssuedToken struct {
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   *time.Time
	ExpiresIn   *time.Duration
}

// TokenCodec signs and verifies HS256 tokens with a single process-wide secret.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// NewTokenCodec builds a codec. A nil clock defaults to time.Now.
func NewTokenCodec(secret string, now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{secret: []byte(secret), now: now}
}

// Encode signs claims, stamping iat with the current time. A nil or negative
// expiresIn issues a token without exp.
func (tc *TokenCodec) Encode(claims Claims, expiresIn *time.Duration) (*IssuedToken, error) {
	issuedAt := tc.now().UTC().Truncate(jwt.TimePrecision)

	out := claims
	out.Roles = slices.Clone(claims.Roles)
	if out.Roles == nil {
		out.Roles = []string{}
	}
	out.IssuedAt = jwt.NewNumericDate(issuedAt)
	out.ExpiresAt = nil

	issued := &IssuedToken{IssuedAt: issuedAt}
	if expiresIn != nil && *expiresIn >= 0 {
		expiresAt := issuedAt.Add(*expiresIn).Truncate(jwt.TimePrecision)
		ttl := *expiresIn
		out.ExpiresAt = jwt.NewNumericDate(expiresAt)
		issued.ExpiresAt = &expiresAt
		issued.ExpiresIn = &ttl
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, out)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return nil, err
	}
	issued.AccessToken = signed
	return issued, nil
}

// Decode verifies the signature and returns the claims. Expiry is compared
// at whole-second precision: the token stays valid through the second named
// by exp and is expired from the next one.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		reason := "unverifiable token"
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			reason = "malformed token"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			reason = "signature mismatch"
		}
		return nil, &TokenInvalidError{Reason: reason, Err: err}
	}

	if claims.Subject == "" {
		return nil, &TokenInvalidError{Reason: "claim 'sub' required"}
	}
	if claims.Roles == nil {
		return nil, &TokenInvalidError{Reason: "claim 'roles' required"}
	}
	if claims.ExpiresAt != nil && tc.now().Truncate(jwt.TimePrecision).After(claims.ExpiresAt.Time) {
		return nil, &TokenInvalidError{Reason: "expired", Err: ErrTokenExpired}
	}
	return &claims, nil
}
