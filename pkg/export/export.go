// Package export renders story listings as CSV and PDF documents.
package export

import "time"

// Row is one exported story.
type Row struct {
	ID        uint
	Title     string
	Category  string
	Status    string
	CreatedAt time.Time
}

// Header is the column header shared by every format.
var Header = []string{"ID", "Title", "Category", "Status", "Created At"}

const createdAtLayout = "2006-01-02 15:04:05"
