package model

import "time"

// ShortLink represents a short link entity
type ShortLink struct {
	ID             uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	ShortCode      string     `json:"short_code" gorm:"type:varchar(20);uniqueIndex;not null"`
	LongURL        string     `json:"long_url" gorm:"type:varchar(2048);not null"`
	OwnerID        uint       `json:"owner_id" gorm:"index;not null"`
	ClickCount     int64      `json:"click_count" gorm:"not null;default:0"`
	SingleUse      bool       `json:"single_use" gorm:"not null;default:false"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ExpirationTime *time.Time `json:"expiration_time" gorm:"index"`
}

// TableName returns the table name for ShortLink
func (ShortLink) TableName() string {
	return "short_links"
}

// IsActive reports whether the short link has not expired
func (sl *ShortLink) IsActive() bool {
	return sl.ExpirationTime == nil || time.Now().Before(*sl.ExpirationTime)
}

// ShortenRequest represents the request to create a short link
type ShortenRequest struct {
	URL            string     `json:"url" binding:"required,url,max=2048"`
	CustomAlias    string     `json:"custom_alias"`
	SingleUse      bool       `json:"single_use"`
	ExpirationTime *time.Time `json:"expiration_time"`
}

// ShortenResponse represents the response of short link creation
type ShortenResponse struct {
	ShortURL       string     `json:"short_url"`
	ShortCode      string     `json:"short_code"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpirationTime *time.Time `json:"expiration_time"`
	CreatedByUser  string     `json:"created_by_user"`
}

// StatsResponse represents per-link click statistics
type StatsResponse struct {
	OriginalURL string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
}

// LinkFilters narrows a listing of an owner's short links.
// All fields are optional and combined conjunctively.
type LinkFilters struct {
	MinClicks     *int64     `form:"min_clicks"`
	MaxClicks     *int64     `form:"max_clicks"`
	Active        *bool      `form:"active"`
	CreatedAfter  *time.Time `form:"created_after" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedBefore *time.Time `form:"created_before" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit         int        `form:"limit"`
	Offset        int        `form:"offset"`
}
