package pricing

import (
	"strconv"
	"strings"

	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/settings"
)

// LineEntry is what was entered for one production line.
type LineEntry struct {
	RunType  string `json:"type" yaml:"type"`
	Quantity string `json:"qty" yaml:"qty"`
	People   int    `json:"ple" yaml:"ple"`
	Hours    int    `json:"hrs" yaml:"hrs"`
}

// Request represents a validated shift report submission.
type Request struct {
	Name  string
	Shift int
	Lines map[lines.ID]LineEntry
	Notes string
	Wage  float64
	// Prices holds the machine prices as shown when the report was submitted.
	// Lines missing here fall back to the configured pair.
	Prices map[lines.ID]settings.PricePair
}

// Row contains the computed values of one line.
type Row struct {
	Line         lines.ID `json:"line"`
	RunType      string   `json:"run_type"`
	Quantity     int      `json:"quantity"`
	Blank        bool     `json:"blank"`
	Price        float64  `json:"price"`
	People       int      `json:"people"`
	Hours        int      `json:"hours"`
	Revenue      float64  `json:"revenue"`
	Labor        float64  `json:"labor"`
	Contribution float64  `json:"contribution"`
	Dimmed       bool     `json:"dimmed"`
}

// Totals contains roll-up values over the lines that produced something.
type Totals struct {
	Revenue      float64 `json:"revenue"`
	Labor        float64 `json:"labor"`
	Contribution float64 `json:"contribution"`
}

// Result groups the per-line rows, in display order, and the shift totals.
type Result struct {
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

// Running counts the lines with a positive quantity.
func (r Result) Running() int {
	n := 0
	for _, row := range r.Rows {
		if !row.Dimmed {
			n++
		}
	}
	return n
}

// Calculate computes revenue, labor and contribution for every line.
func Calculate(req Request, cfg settings.Configuration) Result {
	result := Result{Rows: make([]Row, 0, len(lines.Order()))}

	for _, id := range lines.Order() {
		entry, ok := req.Lines[id]
		if !ok {
			entry = LineEntry{RunType: lines.NotRun}
		}

		qty, blank := ParseQuantity(entry.Quantity)
		price := unitPrice(id, entry.RunType, qty, req, cfg)

		revenue := float64(qty) * price
		labor := float64(entry.Hours) * float64(entry.People) * req.Wage

		row := Row{
			Line:         id,
			RunType:      entry.RunType,
			Quantity:     qty,
			Blank:        blank,
			Price:        price,
			People:       entry.People,
			Hours:        entry.Hours,
			Revenue:      revenue,
			Labor:        labor,
			Contribution: revenue - labor,
			Dimmed:       qty == 0,
		}

		// Idle lines stay on the report but never count toward the totals.
		if qty > 0 {
			result.Totals.Revenue += revenue
			result.Totals.Labor += labor
		}
		result.Rows = append(result.Rows, row)
	}

	result.Totals.Contribution = result.Totals.Revenue - result.Totals.Labor
	return result
}

// ParseQuantity reads quantity text. Blank, non-numeric and negative input
// count as 0; blank reports whether the field was empty.
func ParseQuantity(raw string) (qty int, blank bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, false
}

func unitPrice(id lines.ID, runType string, qty int, req Request, cfg settings.Configuration) float64 {
	if lines.IsHandpack(id) {
		return cfg.Handpacks[runType]
	}

	pair, ok := req.Prices[id]
	if !ok {
		pair, ok = cfg.Prices[id]
	}
	if !ok {
		return 0
	}
	if qty > cfg.QtyThreshold {
		return pair.Over()
	}
	return pair.Under()
}
