package lines

import (
	"sort"
	"strings"
)

// ID identifies one of the fixed production lines on the shift report.
type ID string

const (
	AZ ID = "AZ"
	BZ ID = "BZ"
	DZ ID = "DZ"
	EZ ID = "EZ"
	FZ ID = "FZ"
	H1 ID = "H1"
	H2 ID = "H2"
)

// NotRun is the run type selected for a line that did not run this shift.
const NotRun = "Not Run"

// Limits the shells enforce on their inputs. The calculator does not rely on them.
const (
	MaxPeople = 20
	MaxHours  = 8
)

var (
	metered  = []ID{AZ, BZ, DZ, EZ, FZ}
	handpack = []ID{H1, H2}
)

// Order returns every line in report display order.
func Order() []ID {
	out := make([]ID, 0, len(metered)+len(handpack))
	out = append(out, metered...)
	return append(out, handpack...)
}

// Metered returns the lines priced by quantity tier.
func Metered() []ID {
	return append([]ID(nil), metered...)
}

// Handpack returns the lines priced from the hand-pack catalog.
func Handpack() []ID {
	return append([]ID(nil), handpack...)
}

func IsMetered(id ID) bool {
	for _, m := range metered {
		if m == id {
			return true
		}
	}
	return false
}

func IsHandpack(id ID) bool {
	return id == H1 || id == H2
}

// Parse resolves a user supplied line identifier such as " az".
func Parse(s string) (ID, bool) {
	id := ID(strings.ToUpper(strings.TrimSpace(s)))
	if IsMetered(id) || IsHandpack(id) {
		return id, true
	}
	return "", false
}

// RunTypes lists the run type choices a shell offers for the line.
// Hand-pack lines offer the catalog names in sorted order.
func RunTypes(id ID, handpackNames []string) []string {
	switch {
	case id == DZ:
		return []string{NotRun, "Carousel/Rotary", "Shuttle"}
	case IsMetered(id):
		return []string{NotRun, "Rotary", "Shuttle"}
	case IsHandpack(id):
		names := append([]string(nil), handpackNames...)
		sort.Strings(names)
		return append([]string{NotRun}, names...)
	default:
		return []string{NotRun}
	}
}
