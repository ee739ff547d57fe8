package lines

import "testing"

func TestOrderPutsMeteredLinesBeforeHandpacks(t *testing.T) {
	got := Order()
	want := []ID{AZ, BZ, DZ, EZ, FZ, H1, H2}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order()[%d]=%s, want %s", i, got[i], want[i])
		}
	}
}

func TestOrderReturnsFreshSlice(t *testing.T) {
	first := Metered()
	first[0] = "XX"
	if Metered()[0] != AZ {
		t.Fatalf("mutating the returned slice changed the catalog")
	}
}

func TestParseTrimsAndUppercases(t *testing.T) {
	id, ok := Parse(" dz ")
	if !ok || id != DZ {
		t.Fatalf("Parse(\" dz \")=%q,%v want DZ,true", id, ok)
	}
	if _, ok := Parse("CZ"); ok {
		t.Fatalf("expected CZ to be rejected")
	}
}

func TestRunTypes(t *testing.T) {
	if got := RunTypes(DZ, nil); got[1] != "Carousel/Rotary" {
		t.Fatalf("unexpected DZ run types: %v", got)
	}
	if got := RunTypes(AZ, nil); len(got) != 3 || got[1] != "Rotary" {
		t.Fatalf("unexpected AZ run types: %v", got)
	}

	got := RunTypes(H1, []string{"Zeta Box", "Alpha Tray"})
	want := []string{NotRun, "Alpha Tray", "Zeta Box"}
	if len(got) != len(want) {
		t.Fatalf("RunTypes(H1)=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RunTypes(H1)=%v, want %v", got, want)
		}
	}
}
