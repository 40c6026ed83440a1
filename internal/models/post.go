// Package models contains data structures for the application's domain models.
package models

import "time"

// Post represents a community post in the TOMOSU application.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author is resolved from the user store at read time.
	Author User `gorm:"foreignKey:UserID" json:"author"`
	// Tags carries the post's tags with live post counts; not persisted on
	// the posts table (the post_tags join table is the source of truth).
	Tags []Tag `gorm:"-" json:"tags"`
	// LikesCount is never stored; it is derived from the likes relation set
	// so it cannot drift from the underlying membership.
	LikesCount int `gorm:"-" json:"likes_count"`
	// CommentsCount is derived from the per-post comment list.
	CommentsCount int `gorm:"-" json:"comments_count"`
	// BookmarksCount is derived from the bookmarks relation set.
	BookmarksCount int `gorm:"-" json:"bookmarks_count"`
	// IsLiked / IsBookmarked are viewer-specific flags computed per request.
	IsLiked      bool `gorm:"-" json:"is_liked"`
	IsBookmarked bool `gorm:"-" json:"is_bookmarked"`
}

// PostTag is a row of the post_tags join table at the load boundary.
type PostTag struct {
	PostID uint `gorm:"primaryKey" json:"post_id"`
	TagID  uint `gorm:"primaryKey" json:"tag_id"`
}
