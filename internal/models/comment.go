// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment represents a comment on a post. Comments for a post are always
// served in ascending creation-time order.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"comment_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Author is resolved from the user store at read time.
	Author User `gorm:"foreignKey:UserID" json:"author"`
}
