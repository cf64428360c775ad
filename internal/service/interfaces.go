package service

import (
	"context"
	"time"

	"snaplink/internal/model"
)

// LinkStore defines the link persistence operations (for testing)
type LinkStore interface {
	CreateShortLink(ctx context.Context, sl *model.ShortLink) error
	GetShortLinkByCode(ctx context.Context, shortCode string) (*model.ShortLink, error)
	CheckExistsByCode(ctx context.Context, shortCode string) (bool, error)
	IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error)
	DeleteOwned(ctx context.Context, ownerID uint, shortCode string) (*uint, error)
	DeleteByCode(ctx context.Context, shortCode string) error
	ListByOwner(ctx context.Context, ownerID uint, filters model.LinkFilters) ([]model.ShortLink, error)
}

// UserStore defines the user persistence operations (for testing)
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// CacheStore defines the resolve-cache operations (for testing)
type CacheStore interface {
	SaveShortLink(ctx context.Context, shortCode, longURL string, ttl time.Duration) error
	GetShortLink(ctx context.Context, shortCode string) (string, error)
	DeleteShortLink(ctx context.Context, shortCode string) error
}

// BloomServiceInterface defines the interface for Bloom Filter operations (for testing)
type BloomServiceInterface interface {
	Add(ctx context.Context, shortCode string) error
	Exists(ctx context.Context, shortCode string) (bool, error)
}

// CodeAllocator defines the interface for short-code allocation (for testing)
type CodeAllocator interface {
	Allocate(ctx context.Context, longURL, customAlias string) (string, error)
}

// TokenIssuer defines the interface for bearer token operations (for testing)
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// LinkServiceInterface defines the interface for link use cases
type LinkServiceInterface interface {
	Create(ctx context.Context, req *model.ShortenRequest, owner *model.User) (*model.ShortenResponse, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	RecordHit(ctx context.Context, shortCode string) error
	GetStats(ctx context.Context, shortCode string, requester *model.User) (*model.StatsResponse, error)
	List(ctx context.Context, requester *model.User, filters model.LinkFilters) ([]model.ShortLink, error)
	Delete(ctx context.Context, shortCode string, requester *model.User) (*uint, error)
	ShortURL(shortCode string) string
}

// AuthServiceInterface defines the interface for account use cases
type AuthServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}
