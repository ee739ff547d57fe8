package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/shiftreport/internal/pricing"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("report not found")

const (
	dateLayout = "2006-01-02"
	// Fixed width so that created_at sorts correctly as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry is one generated report as kept in the archive.
type Entry struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	ReportDate string         `json:"report_date"`
	Operator   string         `json:"operator"`
	Shift      int            `json:"shift"`
	Notes      string         `json:"notes"`
	OutputPath string         `json:"output_path"`
	Totals     pricing.Totals `json:"totals"`
	Rows       []pricing.Row  `json:"rows,omitempty"`
}

// Summary is the listing form of an Entry.
type Summary struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	ReportDate   string    `json:"report_date"`
	Operator     string    `json:"operator"`
	Shift        int       `json:"shift"`
	OutputPath   string    `json:"output_path"`
	Contribution float64   `json:"contribution"`
}

// Archive stores generated reports in the history database.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db, now: time.Now}
}

// Record stores a generated report and returns it with its assigned id and timestamp.
func (a *Archive) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = a.now().UTC()
	if e.ReportDate == "" {
		e.ReportDate = e.CreatedAt.Format(dateLayout)
	}

	totalsJSON, err := json.Marshal(e.Totals)
	if err != nil {
		return Entry{}, fmt.Errorf("encode totals: %w", err)
	}
	rows := e.Rows
	if rows == nil {
		rows = []pricing.Row{}
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return Entry{}, fmt.Errorf("encode rows: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO reports (id, created_at, report_date, operator, shift, notes, output_path, totals_json, rows_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CreatedAt.Format(timeLayout), e.ReportDate, e.Operator, e.Shift, e.Notes, e.OutputPath,
		string(totalsJSON), string(rowsJSON))
	if err != nil {
		return Entry{}, fmt.Errorf("insert report: %w", err)
	}

	return e, nil
}

// List returns archived reports, newest first. A non-empty query filters by
// operator name or notes.
func (a *Archive) List(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	search := "%" + escapeLike(query) + "%"
	rows, err := a.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			report_date,
			operator,
			shift,
			output_path,
			totals_json
		FROM reports
		WHERE (? = '' OR operator LIKE ? ESCAPE '\' OR notes LIKE ? ESCAPE '\')
		ORDER BY created_at DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	items := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		var createdAt, totalsJSON string
		if err := rows.Scan(&item.ID, &createdAt, &item.ReportDate, &item.Operator, &item.Shift, &item.OutputPath, &totalsJSON); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		item.CreatedAt = parseTime(createdAt)
		item.Contribution = contributionFromJSON(totalsJSON)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return items, nil
}

// Get loads one archived report including its rows.
func (a *Archive) Get(ctx context.Context, id string) (Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, ErrNotFound
	}

	var e Entry
	var createdAt, totalsJSON, rowsJSON string
	err := a.db.QueryRowContext(ctx, `
		SELECT id, created_at, report_date, operator, shift, notes, output_path, totals_json, rows_json
		FROM reports
		WHERE id = ?
	`, id).Scan(&e.ID, &createdAt, &e.ReportDate, &e.Operator, &e.Shift, &e.Notes, &e.OutputPath, &totalsJSON, &rowsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load report %s: %w", id, err)
	}

	e.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(totalsJSON), &e.Totals); err != nil {
		return Entry{}, fmt.Errorf("decode totals of report %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(rowsJSON), &e.Rows); err != nil {
		return Entry{}, fmt.Errorf("decode rows of report %s: %w", id, err)
	}
	return e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func contributionFromJSON(totalsJSON string) float64 {
	var totals pricing.Totals
	if err := json.Unmarshal([]byte(totalsJSON), &totals); err != nil {
		return 0
	}
	return totals.Contribution
}
