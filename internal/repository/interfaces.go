package repository

import (
	"context"
	"time"

	"snaplink/internal/model"
)

// PostgresRepositoryInterface defines the interface for PostgreSQL operations
type PostgresRepositoryInterface interface {
	CreateShortLink(ctx context.Context, sl *model.ShortLink) error
	GetShortLinkByCode(ctx context.Context, shortCode string) (*model.ShortLink, error)
	CheckExistsByCode(ctx context.Context, shortCode string) (bool, error)
	IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error)
	DeleteOwned(ctx context.Context, ownerID uint, shortCode string) (*uint, error)
	DeleteByCode(ctx context.Context, shortCode string) error
	ListByOwner(ctx context.Context, ownerID uint, filters model.LinkFilters) ([]model.ShortLink, error)
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	Close() error
}

// RedisRepositoryInterface defines the interface for Redis operations
type RedisRepositoryInterface interface {
	SaveShortLink(ctx context.Context, shortCode, longURL string, ttl time.Duration) error
	GetShortLink(ctx context.Context, shortCode string) (string, error)
	DeleteShortLink(ctx context.Context, shortCode string) error
	ExistsShortLink(ctx context.Context, shortCode string) (bool, error)
	Close() error
}
