package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID:        uint(i + 1),
			Title:     fmt.Sprintf("Story %d", i+1),
			Category:  "Fantasy",
			Status:    "published",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	rows := sampleRows(2)
	rows[1].Title = `Quote "me", please`

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Title", "Category", "Status", "Created At"}, records[0])
	assert.Equal(t, []string{"1", "Story 1", "Fantasy", "published", "2025-01-02 03:04:05"}, records[1])
	assert.Equal(t, `Quote "me", please`, records[2][1])
}

var pageObject = regexp.MustCompile(`/Type /Page\b`)

func TestWritePDFPaginates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleRows(70)))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, pageCount(70), len(pageObject.FindAll(buf.Bytes(), -1)))
	assert.Greater(t, pageCount(70), 1)
}

func TestWritePDFCapsRows(t *testing.T) {
	assert.Equal(t, pageCount(MaxPDFRows), pageCount(MaxPDFRows+50))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleRows(MaxPDFRows+50)))
	assert.Equal(t, pageCount(MaxPDFRows), len(pageObject.FindAll(buf.Bytes(), -1)))
}
