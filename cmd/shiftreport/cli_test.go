package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simplici0/shiftreport/internal/history"
	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/settings"
)

func TestReadSubmissionFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	content := []byte(`
name: Dana Cruz
shift: 2
wage: 12.50
notes: BZ down for changeover
lines:
  AZ: {type: Rotary, qty: "6000", ple: 2, hrs: 8}
  H1: {type: Tray 12, qty: 40, ple: 1, hrs: 2}
prices:
  AZ: {over: "0.235", under: "0.382"}
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write request: %v", err)
	}

	sub, err := readSubmission(path)
	if err != nil {
		t.Fatalf("readSubmission: %v", err)
	}
	if sub.Name != "Dana Cruz" || sub.Shift != "2" || sub.Wage != "12.50" {
		t.Fatalf("unexpected header: %+v", sub)
	}
	if az := sub.Lines[lines.AZ]; az.RunType != "Rotary" || az.Quantity != "6000" || az.People != 2 || az.Hours != 8 {
		t.Fatalf("unexpected AZ entry: %+v", az)
	}
	if h1 := sub.Lines[lines.H1]; h1.RunType != "Tray 12" || h1.Quantity != "40" {
		t.Fatalf("unexpected H1 entry: %+v", h1)
	}
	if p := sub.Prices[lines.AZ]; p.Over != "0.235" || p.Under != "0.382" {
		t.Fatalf("unexpected AZ prices: %+v", p)
	}
}

func TestReadSubmissionRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	if err := os.WriteFile(path, []byte("lines: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write request: %v", err)
	}
	if _, err := readSubmission(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRenderSettingsListsPricesAndHandpacks(t *testing.T) {
	cfg := settings.Default()
	cfg.Handpacks = map[string]float64{"Tray 12": 1.25, "Bag 6": 0.8}

	out := renderSettings(cfg)
	for _, expected := range []string{"Wage: $10.00", "Quantity threshold: 5000", "0.2350", "0.3820", "Bag 6", "1.2500"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
	if strings.Index(out, "Bag 6") > strings.Index(out, "Tray 12") {
		t.Fatalf("hand-packs should be sorted by name")
	}
}

func TestRenderHistory(t *testing.T) {
	if got := renderHistory(nil); got != "No reports found." {
		t.Fatalf("empty history=%q", got)
	}

	out := renderHistory([]history.Summary{{
		ID:           "0b8a3f8e-3c1f-4f0e-9a59-4c1d7c9b2a11",
		ReportDate:   "2026-03-14",
		Operator:     "Dana Cruz",
		Shift:        2,
		Contribution: 1218,
		OutputPath:   "contribution_report_2026-03-14.pdf",
	}})
	for _, expected := range []string{"Operator", "Dana Cruz", "$1218.00", "2026-03-14"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
}
