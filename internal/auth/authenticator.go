package auth

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/cryptid/internal/domain"
)

// CredentialStore resolves a subject to its stored credential. It returns an
// error matching domain.ErrNotFound when the subject does not exist.
type CredentialStore interface {
	FindCredential(ctx context.Context, subjectID string) (*domain.Credential, error)
}

// Authenticator checks a subject's password and issues an access token on success.
type Authenticator struct {
	store     CredentialStore
	hasher    *PasswordHasher
	tokens    *TokenCodec
	accessTTL time.Duration
}

// NewAuthenticator wires the credential store, hasher and codec. A negative
// accessTTL issues tokens without expiry.
func NewAuthenticator(store CredentialStore, hasher *PasswordHasher, tokens *TokenCodec, accessTTL time.Duration) *Authenticator {
	return &Authenticator{store: store, hasher: hasher, tokens: tokens, accessTTL: accessTTL}
}

// Authenticate verifies the password of subjectID and returns a token carrying
// the stored roles. Both an unknown subject and a wrong password yield an
// *AuthenticationError.
func (a *Authenticator) Authenticate(ctx context.Context, subjectID, password string) (*IssuedToken, *domain.Credential, error) {
	cred, err := a.store.FindCredential(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, &AuthenticationError{SubjectID: subjectID, Reason: FailureUnknownSubject}
		}
		return nil, nil, err
	}

	ok, err := a.hasher.Verify(password, cred.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &AuthenticationError{SubjectID: subjectID, Reason: FailureWrongPassword}
	}

	token, err := a.Issue(cred.SubjectID, cred.Roles)
	if err != nil {
		return nil, nil, err
	}
	return token, cred, nil
}

// Issue signs an access token for subjectID without checking a password.
func (a *Authenticator) Issue(subjectID string, roles []string) (*IssuedToken, error) {
	ttl := a.accessTTL
	return a.tokens.Encode(NewClaims(subjectID, roles), &ttl)
}

// Tokens exposes the codec for the gate and token introspection.
func (a *Authenticator) Tokens() *TokenCodec {
	return a.tokens
}
