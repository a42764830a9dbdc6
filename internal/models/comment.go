package models

import "time"

// Comment is a reader or author remark on a story.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StoryID   uint      `json:"story_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentWithAuthor is a comment joined with the commenter's username.
type CommentWithAuthor struct {
	Comment
	Username string `json:"username"`
}

type CreateCommentRequest struct {
	Content string `form:"content" json:"content"`
}
