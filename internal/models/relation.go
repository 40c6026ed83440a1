// Package models contains data structures for the application's domain models.
package models

import "time"

// Like is a user's like on a post. The (UserID, PostID) pair is the identity;
// in memory it is held as set membership per post.
type Like struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is a user's bookmark of a post, held as set membership per user.
type Bookmark struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	PostID    uint      `gorm:"primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow is a directed follower -> followee edge in the social graph.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey" json:"follower_id"`
	FolloweeID uint      `gorm:"primaryKey" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
