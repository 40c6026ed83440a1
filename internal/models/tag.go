// Package models contains data structures for the application's domain models.
package models

// Tag is a case-sensitive label attached to zero or more posts.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"tag_id"`
	Name string `gorm:"unique;not null" json:"tag_name"`
	// PostsCount is derived live from the tag->posts index, never stored.
	PostsCount int `gorm:"-" json:"posts_count"`
}
