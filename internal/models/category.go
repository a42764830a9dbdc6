package models

import "time"

// Category is a named bucket stories are filed under.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

// CategoryCount is a category with its number of stories.
type CategoryCount struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}
