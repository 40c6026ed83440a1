// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a resident account in the TOMOSU application.
// Users are loaded once from the backing store and never mutated afterwards.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"user_id"`
	Username    string    `gorm:"unique;not null" json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Bio         string    `json:"bio"`
	Area        string    `json:"area"`
	AvatarURL   string    `json:"profile_image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserProfile is a User enriched with relationship counts derived from the
// follow adjacency and the post store.
type UserProfile struct {
	User
	FollowersCount int `gorm:"-" json:"followers_count"`
	FollowingCount int `gorm:"-" json:"following_count"`
	PostsCount     int `gorm:"-" json:"posts_count"`
}
