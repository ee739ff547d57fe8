package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/pricing"
)

const (
	Title = "Production Contribution Report"

	notesWidth    = 160
	notesMaxLines = 5
	noNotes       = "No notes provided"
	dateLayout    = "2006-01-02"
)

// Columns are the table headers, left to right.
var Columns = []string{"Line", "Run Type", "Qty", "Prc", "Ple", "Hrs", "Revenue", "Labor", "Contribution"}

// columnWidths are in inches and line up with Columns.
var columnWidths = []float64{0.5, 2.75, 0.9, 1.0, 0.8, 0.8, 1.2, 1.0, 1.3}

// Meta is the report context that does not come from the calculation.
type Meta struct {
	Name  string
	Shift int
	Date  time.Time
	Notes string
}

// Row is one printed table row.
type Row struct {
	Cells  []string
	Dimmed bool
	// SpacerAfter separates the metered lines from the hand-pack lines.
	SpacerAfter bool
}

// Document is the fully formatted page, ready for layout.
type Document struct {
	Title   string
	Name    string
	Shift   int
	Date    string
	Columns []string
	Rows    []Row
	Revenue string
	Labor   string
	Total   string
	Notes   []string
}

// Build formats a calculation result into a Document.
func Build(meta Meta, result pricing.Result) Document {
	doc := Document{
		Title:   Title,
		Name:    meta.Name,
		Shift:   meta.Shift,
		Date:    meta.Date.Format(dateLayout),
		Columns: Columns,
		Rows:    make([]Row, 0, len(result.Rows)),
		Revenue: money(result.Totals.Revenue),
		Labor:   money(result.Totals.Labor),
		Total:   money(result.Totals.Contribution),
		Notes:   WrapNotes(meta.Notes),
	}

	metered := lines.Metered()
	lastMetered := metered[len(metered)-1]
	for _, r := range result.Rows {
		doc.Rows = append(doc.Rows, Row{
			Cells:       cells(r),
			Dimmed:      r.Dimmed,
			SpacerAfter: r.Line == lastMetered,
		})
	}
	return doc
}

// cells leaves quantity, price, revenue and labor empty when no quantity was
// entered; contribution is always shown.
func cells(r pricing.Row) []string {
	qty, price, revenue, labor := "", "", "", ""
	if !r.Blank {
		qty = strconv.Itoa(r.Quantity)
		price = fmt.Sprintf("%.4f", r.Price)
		revenue = money(r.Revenue)
		labor = money(r.Labor)
	}
	return []string{
		string(r.Line),
		r.RunType,
		qty,
		price,
		strconv.Itoa(r.People),
		strconv.Itoa(r.Hours),
		revenue,
		labor,
		money(r.Contribution),
	}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FileName is the output name for a report generated on date. Reports from the
// same day share a name.
func FileName(date time.Time) string {
	return "contribution_report_" + date.Format(dateLayout) + ".pdf"
}

// WrapNotes word-wraps notes to 160 columns and keeps the first 5 lines.
func WrapNotes(notes string) []string {
	wrapped := wrap(notes, notesWidth)
	if len(wrapped) == 0 {
		return []string{noNotes}
	}
	if len(wrapped) > notesMaxLines {
		wrapped = wrapped[:notesMaxLines]
	}
	return wrapped
}

// wrap collapses whitespace and fills lines up to width runes, splitting words
// longer than a line.
func wrap(text string, width int) []string {
	var out []string
	var line []rune

	flush := func() {
		if len(line) > 0 {
			out = append(out, string(line))
			line = line[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > 0 {
			space := 0
			if len(line) > 0 {
				space = 1
			}
			if len(line)+space+len(w) <= width {
				if space == 1 {
					line = append(line, ' ')
				}
				line = append(line, w...)
				break
			}
			if len(line) > 0 {
				flush()
				continue
			}
			line = append(line, w[:width]...)
			w = w[width:]
			flush()
		}
	}
	flush()
	return out
}
