package models

import "time"

// Like records that a user liked a story. (user_id, story_id) is unique.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"uniqueIndex:uq_likes_user_story"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:uq_likes_user_story"`
	CreatedAt time.Time `json:"created_at"`
}

// Share records a share of a story to a platform.
type Share struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// View records one view of a story.
type View struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"index"`
	UserID    *uint     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ShareRequest struct {
	Platform string `form:"platform" json:"platform"`
}
