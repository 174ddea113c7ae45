package dto

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/cryptid/internal/service"
)

// TokenRequest is the OAuth2 password grant accepted by POST /auth/token,
// either form encoded or as JSON. Username is the user id.
type TokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

// TokenResponse follows the OAuth2 token response shape.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    *int64 `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// NewTokenResponse maps an issued pair.
func NewTokenResponse(pair *service.TokenPair) TokenResponse {
	resp := TokenResponse{
		AccessToken:  pair.Access.AccessToken,
		TokenType:    "bearer",
		RefreshToken: pair.RefreshToken,
	}
	if pair.Access.ExpiresIn != nil {
		seconds := int64(pair.Access.ExpiresIn.Seconds())
		resp.ExpiresIn = &seconds
	}
	return resp
}

// ClaimsResponse renders verified claims with readable timestamps.
type ClaimsResponse struct {
	Sub    string     `json:"sub"`
	Roles  []string   `json:"roles"`
	Iat    *int64     `json:"iat"`
	IatUTC *time.Time `json:"iat_utc"`
	Exp    *int64     `json:"exp"`
	ExpUTC *time.Time `json:"exp_utc"`
}

// IntrospectionResponse is returned by GET /auth/token.
type IntrospectionResponse struct {
	Claims     ClaimsResponse `json:"claims"`
	UserExists bool           `json:"user_exists"`
}

// NewIntrospectionResponse maps a token introspection.
func NewIntrospectionResponse(in *service.Introspection) IntrospectionResponse {
	claims := ClaimsResponse{Sub: in.Claims.Subject, Roles: in.Claims.Roles}
	claims.Iat, claims.IatUTC = unixAndUTC(in.Claims.IssuedAt)
	claims.Exp, claims.ExpUTC = unixAndUTC(in.Claims.ExpiresAt)
	return IntrospectionResponse{Claims: claims, UserExists: in.UserExists}
}

func unixAndUTC(d *jwt.NumericDate) (*int64, *time.Time) {
	if d == nil {
		return nil, nil
	}
	unix := d.Unix()
	utc := d.Time.UTC()
	return &unix, &utc
}
