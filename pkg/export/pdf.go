package export

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// MaxPDFRows caps the number of stories in a PDF listing.
const MaxPDFRows = 200

const (
	pageHeight   = 297.0
	bottomMargin = 20.0
	lineHeight   = 8.0
)

var columnWidths = []float64{15, 75, 35, 25, 40}

// WritePDF writes an A4 listing, starting a new page whenever the cursor
// reaches the bottom margin. Rows beyond MaxPDFRows are dropped.
func WritePDF(w io.Writer, rows []Row) error {
	if len(rows) > MaxPDFRows {
		rows = rows[:MaxPDFRows]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	newPage := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Stories Report", "", 1, "C", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range Header {
			pdf.CellFormat(columnWidths[i], lineHeight, h, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	newPage()
	for _, r := range rows {
		if pdf.GetY()+lineHeight > pageHeight-bottomMargin {
			newPage()
		}
		cells := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			truncate(r.Title, 45),
			truncate(r.Category, 20),
			r.Status,
			r.CreatedAt.Format(createdAtLayout),
		}
		for i, c := range cells {
			pdf.CellFormat(columnWidths[i], lineHeight, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// pageCount reports how many pages WritePDF produces for n rows.
func pageCount(n int) int {
	if n > MaxPDFRows {
		n = MaxPDFRows
	}
	// title 10 + gap 2 + header row, starting at the 10mm top margin
	firstRowY := 10.0 + 10 + 2 + lineHeight
	perPage := int((pageHeight - bottomMargin - firstRowY) / lineHeight)
	if n == 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
