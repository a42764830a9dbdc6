package models

import (
	"strings"
	"time"
)

const (
	StoryDraft     = "draft"
	StoryScheduled = "scheduled"
	StoryPublished = "published"
)

// PublishDateLayout is the format of the datetime-local form input.
const PublishDateLayout = "2006-01-02T15:04"

// Story is an authored piece. Views, Likes, Comments and Shares mirror the
// child tables and are only changed in the same transaction as the child row.
type Story struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	AuthorID      uint       `json:"author_id" gorm:"index"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Status        string     `json:"status" gorm:"size:20;default:draft"`
	Category      *string    `json:"category"`
	CategoryID    *uint      `json:"category_id"`
	Tags          string     `json:"tags"`
	FeaturedImage *string    `json:"featured_image"`
	Views         int64      `json:"views"`
	Likes         int64      `json:"likes"`
	Comments      int64      `json:"comments"`
	Shares        int64      `json:"shares"`
	PublishDate   *time.Time `json:"publish_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StoryWithAuthor is a story joined with its author's public fields.
type StoryWithAuthor struct {
	Story
	AuthorName       string  `json:"author_name"`
	AuthorProfilePic *string `json:"author_profile_pic"`
}

// StoryFilter drives the role-dependent browse queries.
type StoryFilter struct {
	Role     string
	ViewerID uint
	Search   string
	Category string
	Status   string
	Page     int
	PerPage  int
}

// MaxPage bounds the page number so offsets stay far from int overflow.
const MaxPage = 100000

// ClampPage maps a requested page into [1, MaxPage].
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset of the requested page (pages start at 1).
func (f StoryFilter) Offset() int {
	if f.Page < 1 || f.PerPage < 1 {
		return 0
	}
	return (ClampPage(f.Page) - 1) * f.PerPage
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	page = ClampPage(page)
	pages := int64(0)
	if perPage > 0 {
		pages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: int64(page)*int64(perPage) < total,
	}
}

// StoryForm carries the author create/update form. The featured image is read
// separately from the multipart body.
type StoryForm struct {
	Title       string `form:"title" json:"title"`
	Content     string `form:"content" json:"content"`
	Status      string `form:"status" json:"status"`
	Category    string `form:"category" json:"category"`
	Tags        string `form:"tags" json:"tags"`
	Action      string `form:"action" json:"action"`
	PublishDate string `form:"publish_date" json:"publish_date"`
	RemoveImage string `form:"remove_image" json:"remove_image"`
}

// ClearsImage reports whether the remove_image checkbox was ticked.
func (f StoryForm) ClearsImage() bool {
	switch strings.ToLower(strings.TrimSpace(f.RemoveImage)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// ResolveStatus maps the submit button and status field to a story status.
func (f StoryForm) ResolveStatus() string {
	switch f.Action {
	case "save_draft":
		return StoryDraft
	case "publish":
		return StoryPublished
	}
	switch f.Status {
	case StoryDraft, StoryScheduled, StoryPublished:
		return f.Status
	}
	return StoryDraft
}

// Validate checks the required fields.
func (f StoryForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == "" {
		return ErrTitleContentRequired
	}
	return nil
}

// ResolvePublishDate computes the publish date for a story moving to status.
// Scheduled stories take the submitted value when one is given; published
// stories keep an existing date or get now; drafts carry none.
func ResolvePublishDate(status, submitted string, existing *time.Time, now time.Time) (*time.Time, error) {
	switch status {
	case StoryDraft:
		return nil, nil
	case StoryScheduled:
		if strings.TrimSpace(submitted) == "" {
			return existing, nil
		}
		t, err := time.ParseInLocation(PublishDateLayout, strings.TrimSpace(submitted), time.Local)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		return &t, nil
	case StoryPublished:
		if existing != nil {
			return existing, nil
		}
		return &now, nil
	}
	return existing, nil
}
