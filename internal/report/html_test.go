package report

import (
	"strings"
	"testing"
)

func TestHTMLRendersHeaderRowsTotalsAndNotes(t *testing.T) {
	doc := Build(sampleMeta(), sampleResult())

	out, err := HTML(doc, "")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	body := string(out)

	for _, expected := range []string{
		"Production Contribution Report",
		"Name: Dana Cruz",
		"Shift: 2",
		"Date: 2026-03-14",
		"<th>Contribution</th>",
		"Total Revenue: $1410.00",
		"Total Labor: $192.00",
		"Total Contribution: $1218.00",
		"Line BZ down for changeover.",
		"size: letter landscape",
		`style="width: 2.75in"`,
	} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected page to contain %q, got: %s", expected, body)
		}
	}

	if strings.Contains(body, "<img") {
		t.Fatalf("no logo configured but page has an image")
	}
	if got := strings.Count(body, `class="spacer"`); got != 1 {
		t.Fatalf("expected exactly one spacer row, got %d", got)
	}
	if got := strings.Count(body, `class="dimmed"`); got != 6 {
		t.Fatalf("expected 6 dimmed rows, got %d", got)
	}
}

func TestHTMLEscapesUserText(t *testing.T) {
	meta := sampleMeta()
	meta.Name = "<script>alert(1)</script>"
	meta.Notes = "a < b & c"

	out, err := HTML(Build(meta, sampleResult()), "")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	body := string(out)
	if strings.Contains(body, "<script>") {
		t.Fatalf("operator name was not escaped")
	}
	if !strings.Contains(body, "a &lt; b &amp; c") {
		t.Fatalf("notes were not escaped: %s", body)
	}
}

func TestHTMLEmbedsLogoDataURI(t *testing.T) {
	logo := "data:image/png;base64,iVBORw0KGgo="

	out, err := HTML(Build(sampleMeta(), sampleResult()), logo)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(string(out), `src="`+logo+`"`) {
		t.Fatalf("logo data URI not embedded verbatim")
	}
}
