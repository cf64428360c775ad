package model

import "time"

// User represents a registered account
type User struct {
	ID           uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string      `json:"username" gorm:"type:varchar(30);uniqueIndex;not null"`
	FullName     string      `json:"full_name" gorm:"not null"`
	PasswordHash string      `json:"-" gorm:"not null"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	ShortLinks   []ShortLink `json:"-" gorm:"foreignKey:OwnerID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=30"`
	FullName string `json:"fullname" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse represents a user summary returned by the API
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents an issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
