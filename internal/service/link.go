package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"snaplink/internal/allocator"
	"snaplink/internal/model"
	"snaplink/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultExpiration is applied when a create request names no expiration
	DefaultExpiration = 3 * time.Hour
	// MaxURLLength bounds accepted long URLs
	MaxURLLength = 2048
	// createRetries bounds re-allocation when a racing insert hits the
	// unique constraint on short_code
	createRetries = 3
)

var (
	// ErrInvalidURL is returned when the long URL fails syntactic validation
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidExpiration is returned when expiration is not after creation time
	ErrInvalidExpiration = errors.New("expiration time must be in the future")
	// ErrLinkNotFound is returned when no link matches the short code
	ErrLinkNotFound = errors.New("short link not found")
	// ErrPermissionDenied is returned when the requester does not own the link
	ErrPermissionDenied = errors.New("permission denied")
	// ErrServiceUnavailable is returned when the storage layer fails
	ErrServiceUnavailable = errors.New("service unavailable")
)

// LinkService orchestrates allocation and persistence into the link use cases
type LinkService struct {
	repo    LinkStore
	cache   CacheStore
	bloom   BloomServiceInterface
	alloc   CodeAllocator
	baseURL string
}

// NewLinkService creates a new LinkService
func NewLinkService(repo LinkStore, cache CacheStore, bloom BloomServiceInterface, alloc CodeAllocator, baseURL string) *LinkService {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LinkService{
		repo:    repo,
		cache:   cache,
		bloom:   bloom,
		alloc:   alloc,
		baseURL: baseURL,
	}
}

// Create allocates a short code for the request and persists the link.
// Expiration defaults to creation time plus three hours when unset.
func (s *LinkService) Create(ctx context.Context, req *model.ShortenRequest, owner *model.User) (*model.ShortenResponse, error) {
	if err := validateLongURL(req.URL); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiration := req.ExpirationTime
	if expiration == nil {
		t := now.Add(DefaultExpiration)
		expiration = &t
	} else if !expiration.After(now) {
		return nil, ErrInvalidExpiration
	}

	var sl *model.ShortLink
	for attempt := 0; attempt < createRetries; attempt++ {
		code, err := s.alloc.Allocate(ctx, req.URL, req.CustomAlias)
		if err != nil {
			return nil, err
		}

		sl = &model.ShortLink{
			ShortCode:      code,
			LongURL:        req.URL,
			OwnerID:        owner.ID,
			SingleUse:      req.SingleUse,
			CreatedAt:      now,
			ExpirationTime: expiration,
		}

		err = s.repo.CreateShortLink(ctx, sl)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			// The code was claimed between the existence check and the
			// insert. A custom alias cannot be retried with a new salt.
			if req.CustomAlias != "" {
				return nil, allocator.ErrAliasTaken
			}
			log.Warn().Str("short_code", code).Msg("Short code raced, reallocating")
			sl = nil
			continue
		}
		log.Error().Err(err).Str("short_code", code).Str("username", owner.Username).Msg("Failed to save short link")
		return nil, ErrServiceUnavailable
	}
	if sl == nil {
		return nil, ErrServiceUnavailable
	}

	s.cacheLink(ctx, sl)
	if err := s.bloom.Add(ctx, sl.ShortCode); err != nil {
		log.Warn().Err(err).Str("short_code", sl.ShortCode).Msg("Failed to add to Bloom Filter")
	}

	log.Info().Str("short_code", sl.ShortCode).Str("username", owner.Username).Msg("Short link created")

	return &model.ShortenResponse{
		ShortURL:       s.ShortURL(sl.ShortCode),
		ShortCode:      sl.ShortCode,
		CreatedAt:      sl.CreatedAt,
		ExpirationTime: sl.ExpirationTime,
		CreatedByUser:  owner.Username,
	}, nil
}

// Resolve returns the long URL behind a short code. It performs no click
// accounting, so a missed lookup never counts as a hit.
func (s *LinkService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if longURL, err := s.cache.GetShortLink(ctx, shortCode); err == nil && longURL != "" {
		return longURL, nil
	}

	sl, err := s.repo.GetShortLinkByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrLinkNotFound
		}
		log.Error().Err(err).Str("short_code", shortCode).Msg("Storage error resolving short link")
		return "", ErrServiceUnavailable
	}

	if !sl.IsActive() {
		return "", ErrLinkNotFound
	}

	s.cacheLink(ctx, sl)
	return sl.LongURL, nil
}

// RecordHit atomically increments the click counter. Resolve has already
// validated existence on the normal path, so a miss here is treated as data
// inconsistency: logged and surfaced as not-found, never a crash.
func (s *LinkService) RecordHit(ctx context.Context, shortCode string) error {
	sl, err := s.repo.IncrementClicks(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Str("short_code", shortCode).Msg("Click recorded for a missing short link")
		} else {
			log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to record click")
		}
		return ErrLinkNotFound
	}

	if sl.SingleUse && sl.ClickCount >= 1 {
		if err := s.repo.DeleteByCode(ctx, shortCode); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to retire single-use link")
		}
		if err := s.cache.DeleteShortLink(ctx, shortCode); err != nil {
			log.Warn().Err(err).Str("short_code", shortCode).Msg("Failed to drop cached single-use link")
		}
	}

	return nil
}

// GetStats returns the long URL and click count for the link's owner.
// Existence is checked before ownership, so not-found wins over
// permission-denied for codes that do not exist.
func (s *LinkService) GetStats(ctx context.Context, shortCode string, requester *model.User) (*model.StatsResponse, error) {
	sl, err := s.repo.GetShortLinkByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		log.Error().Err(err).Str("short_code", shortCode).Msg("Storage error fetching stats")
		return nil, ErrServiceUnavailable
	}

	if sl.OwnerID != requester.ID {
		log.Warn().Str("short_code", shortCode).Str("username", requester.Username).Msg("Stats requested by non-owner")
		return nil, ErrPermissionDenied
	}

	return &model.StatsResponse{OriginalURL: sl.LongURL, Clicks: sl.ClickCount}, nil
}

// List returns the requester's own links, narrowed by the optional filters
func (s *LinkService) List(ctx context.Context, requester *model.User, filters model.LinkFilters) ([]model.ShortLink, error) {
	links, err := s.repo.ListByOwner(ctx, requester.ID, filters)
	if err != nil {
		log.Error().Err(err).Str("username", requester.Username).Msg("Storage error listing short links")
		return nil, ErrServiceUnavailable
	}
	return links, nil
}

// Delete removes a link if and only if the requester owns it, in a single
// conditional statement. A nil id means the link did not exist or belongs to
// someone else; the caller cannot distinguish the two.
func (s *LinkService) Delete(ctx context.Context, shortCode string, requester *model.User) (*uint, error) {
	id, err := s.repo.DeleteOwned(ctx, requester.ID, shortCode)
	if err != nil {
		log.Error().Err(err).Str("short_code", shortCode).Msg("Storage error deleting short link")
		return nil, ErrServiceUnavailable
	}
	if id != nil {
		if err := s.cache.DeleteShortLink(ctx, shortCode); err != nil {
			log.Warn().Err(err).Str("short_code", shortCode).Msg("Failed to drop cached short link")
		}
		log.Info().Str("short_code", shortCode).Str("username", requester.Username).Msg("Short link deleted")
	}
	return id, nil
}

// ShortURL builds the user-facing short link for a code
func (s *LinkService) ShortURL(shortCode string) string {
	return s.baseURL + shortCode
}

// cacheLink stores the mapping, capping the TTL at the link's expiration.
// Single-use links are never cached: a cached hit would outlive the row.
func (s *LinkService) cacheLink(ctx context.Context, sl *model.ShortLink) {
	if sl.SingleUse {
		return
	}
	ttl := repository.ShortLinkCacheTTL
	if sl.ExpirationTime != nil {
		if until := time.Until(*sl.ExpirationTime); until < ttl {
			ttl = until
		}
	}
	if ttl <= 0 {
		return
	}
	if err := s.cache.SaveShortLink(ctx, sl.ShortCode, sl.LongURL, ttl); err != nil {
		log.Warn().Err(err).Str("short_code", sl.ShortCode).Msg("Failed to cache short link")
	}
}

func validateLongURL(raw string) error {
	if raw == "" || len(raw) > MaxURLLength {
		return ErrInvalidURL
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}
	return nil
}
