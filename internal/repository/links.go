package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snaplink/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultListLimit is applied when a listing requests no explicit limit
	DefaultListLimit = 10
)

// CreateShortLink inserts a new short link row. The unique index on
// short_code is the authority on code uniqueness; a race that slips past
// the allocator surfaces here as ErrDuplicateKey.
func (r *PostgresRepository) CreateShortLink(ctx context.Context, sl *model.ShortLink) error {
	if err := r.db.WithContext(ctx).Create(sl).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create short link: %w", err)
	}
	return nil
}

// GetShortLinkByCode retrieves a short link by short code
func (r *PostgresRepository) GetShortLinkByCode(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	var sl model.ShortLink
	err := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&sl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get short link by code: %w", err)
	}
	return &sl, nil
}

// CheckExistsByCode checks if a short code exists
func (r *PostgresRepository) CheckExistsByCode(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("short_code = ?", shortCode).
		Count(&count).Error
	return count > 0, err
}

// IncrementClicks bumps the click counter in a single UPDATE so concurrent
// redirects never lose an increment, and returns the post-increment row.
func (r *PostgresRepository) IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	var sl model.ShortLink
	res := r.db.WithContext(ctx).
		Model(&sl).
		Clauses(clause.Returning{}).
		Where("short_code = ?", shortCode).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("increment clicks: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &sl, nil
}

// DeleteOwned deletes a short link only when both the code and the owner
// match, as one conditional DELETE. A nil id means the link did not exist
// or is owned by someone else; callers cannot tell which.
func (r *PostgresRepository) DeleteOwned(ctx context.Context, ownerID uint, shortCode string) (*uint, error) {
	var sl model.ShortLink
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("short_code = ? AND owner_id = ?", shortCode, ownerID).
		Delete(&sl)
	if res.Error != nil {
		return nil, fmt.Errorf("delete owned short link: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &sl.ID, nil
}

// DeleteByCode removes a short link unconditionally. Used internally for
// single-use links after their first recorded hit.
func (r *PostgresRepository) DeleteByCode(ctx context.Context, shortCode string) error {
	res := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		Delete(&model.ShortLink{})
	if res.Error != nil {
		return fmt.Errorf("delete short link: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByOwner returns an owner's short links narrowed by the optional
// conjunctive filters, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID uint, filters model.LinkFilters) ([]model.ShortLink, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("owner_id = ?", ownerID)

	if filters.MinClicks != nil {
		query = query.Where("click_count >= ?", *filters.MinClicks)
	}
	if filters.MaxClicks != nil {
		query = query.Where("click_count <= ?", *filters.MaxClicks)
	}
	if filters.Active != nil {
		now := time.Now().UTC()
		if *filters.Active {
			query = query.Where("expiration_time IS NULL OR expiration_time > ?", now)
		} else {
			query = query.Where("expiration_time IS NOT NULL AND expiration_time <= ?", now)
		}
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	var links []model.ShortLink
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list short links: %w", err)
	}
	return links, nil
}
