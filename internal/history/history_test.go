package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Simplici0/shiftreport/internal/db"
	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/migrations"
	"github.com/Simplici0/shiftreport/internal/pricing"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()

	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := migrations.Up(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	a := NewArchive(conn)
	clock := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return a
}

func sampleEntry(operator, notes string, contribution float64) Entry {
	return Entry{
		ReportDate: "2026-03-14",
		Operator:   operator,
		Shift:      1,
		Notes:      notes,
		OutputPath: "/reports/contribution_report_2026-03-14.pdf",
		Totals:     pricing.Totals{Revenue: contribution + 100, Labor: 100, Contribution: contribution},
		Rows: []pricing.Row{
			{Line: lines.AZ, RunType: "Rotary", Quantity: 6000, Price: 0.235, People: 2, Hours: 8},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	saved, err := a.Record(ctx, sampleEntry("Dana Cruz", "smooth shift", 1218))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", saved)
	}

	got, err := a.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Operator != "Dana Cruz" || got.Notes != "smooth shift" || got.Shift != 1 {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("created_at=%v, want %v", got.CreatedAt, saved.CreatedAt)
	}
	if got.Totals.Contribution != 1218 {
		t.Fatalf("contribution=%v", got.Totals.Contribution)
	}
	if len(got.Rows) != 1 || got.Rows[0].Line != lines.AZ || got.Rows[0].Quantity != 6000 {
		t.Fatalf("rows not restored: %+v", got.Rows)
	}
}

func TestGetUnknown(t *testing.T) {
	a := newTestArchive(t)

	for _, id := range []string{"not-a-uuid", "0b8a3f8e-3c1f-4f0e-9a59-4c1d7c9b2a11"} {
		if _, err := a.Get(context.Background(), id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q) expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestListNewestFirstAndFiltered(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	for _, e := range []Entry{
		sampleEntry("Dana Cruz", "first", 10),
		sampleEntry("Lee Park", "BZ down for changeover", 20),
		sampleEntry("Dana Cruz", "third", 30),
	} {
		if _, err := a.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := a.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(all))
	}
	if all[0].Contribution != 30 || all[2].Contribution != 10 {
		t.Fatalf("expected newest first, got %+v", all)
	}

	byName, err := a.List(ctx, "dana")
	if err != nil {
		t.Fatalf("List by operator: %v", err)
	}
	if len(byName) != 2 {
		t.Fatalf("expected 2 reports for dana, got %d", len(byName))
	}

	byNotes, err := a.List(ctx, "changeover")
	if err != nil {
		t.Fatalf("List by notes: %v", err)
	}
	if len(byNotes) != 1 || byNotes[0].Operator != "Lee Park" {
		t.Fatalf("unexpected notes match: %+v", byNotes)
	}
}

func TestListEmpty(t *testing.T) {
	a := newTestArchive(t)

	items, err := a.List(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestListTreatsWildcardsLiterally(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	for _, e := range []Entry{
		sampleEntry("Dana Cruz", "AZ at 100% all shift", 10),
		sampleEntry("Lee Park", "line_b restarted", 20),
		sampleEntry("Sam Ortiz", "quiet", 30),
	} {
		if _, err := a.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	percent, err := a.List(ctx, "%")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(percent) != 1 || percent[0].Operator != "Dana Cruz" {
		t.Fatalf("expected only the report mentioning %%, got %+v", percent)
	}

	underscore, err := a.List(ctx, "_")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(underscore) != 1 || underscore[0].Operator != "Lee Park" {
		t.Fatalf("expected only the report mentioning _, got %+v", underscore)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("escapeLike=%q", got)
	}
}
