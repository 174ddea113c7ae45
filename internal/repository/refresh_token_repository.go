package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/cryptid/internal/domain"
)

const refreshTokenKeyPrefix = "cryptid:refresh_token:"

// RefreshToken is an opaque, single-use token exchangeable for a new access token.
type RefreshToken struct {
	Token     string
	SubjectID string
	ExpiresAt time.Time
}

// RefreshTokenRepository stores refresh tokens until they are used or expire.
type RefreshTokenRepository interface {
	Create(ctx context.Context, subjectID string, ttl time.Duration) (*RefreshToken, error)
	// Consume deletes the token and returns its subject. Unknown, used and
	// expired tokens all match domain.ErrNotFound.
	Consume(ctx context.Context, token string) (string, error)
}

type refreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository returns a Redis-backed implementation.
func NewRefreshTokenRepository(client *redis.Client) RefreshTokenRepository {
	return &refreshTokenRepository{client: client}
}

func (r *refreshTokenRepository) Create(ctx context.Context, subjectID string, ttl time.Duration) (*RefreshToken, error) {
	token := &RefreshToken{
		Token:     uuid.NewString(),
		SubjectID: subjectID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := r.client.Set(ctx, refreshTokenKeyPrefix+token.Token, subjectID, ttl).Err(); err != nil {
		return nil, err
	}
	return token, nil
}

func (r *refreshTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	subjectID, err := r.client.GetDel(ctx, refreshTokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.NewNotFound("refresh token", "<redacted>")
	}
	if err != nil {
		return "", err
	}
	return subjectID, nil
}
