package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/settings"
)

// Catalog lists products and prices to add to a settings file.
type Catalog struct {
	Handpacks map[string]float64 `yaml:"handpacks"`
	// Prices only fill metered lines that have no pair configured.
	Prices map[lines.ID][]float64 `yaml:"prices"`
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts   int
	Unchanged int
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Run writes the settings file if it does not exist yet and adds catalog
// entries that are missing. Existing values are never overwritten, so running
// it again changes nothing.
func Run(store *settings.Store, catalog Catalog) (Stats, error) {
	stats := Stats{}

	if err := ensureFile(store, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensurePrices(store, catalog.Prices, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureHandpacks(store, catalog.Handpacks, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func ensureFile(store *settings.Store, stats *Stats) error {
	_, err := os.Stat(store.Path())
	if err == nil {
		stats.Unchanged++
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat settings file: %w", err)
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePrices(store *settings.Store, prices map[lines.ID][]float64, stats *Stats) error {
	if len(prices) == 0 {
		return nil
	}
	current := store.Snapshot().Prices
	missing := make(map[lines.ID]settings.PricePair)
	seen := make(map[lines.ID]bool, len(prices))
	for key, pair := range prices {
		id, ok := lines.Parse(string(key))
		if !ok || !lines.IsMetered(id) {
			return fmt.Errorf("catalog prices[%s]: %w", key, settings.ErrUnknownLine)
		}
		if seen[id] {
			return fmt.Errorf("catalog prices: line %s listed more than once", id)
		}
		seen[id] = true
		if len(pair) != 2 {
			return fmt.Errorf("catalog prices[%s]: expected [over, under], got %d values", key, len(pair))
		}
		if _, ok := current[id]; ok {
			stats.Unchanged++
			continue
		}
		missing[id] = settings.PricePair{pair[0], pair[1]}
	}
	if err := store.SetMachinePrices(missing); err != nil {
		return fmt.Errorf("seed machine prices: %w", err)
	}
	stats.Inserts += len(missing)
	return nil
}

func ensureHandpacks(store *settings.Store, handpacks map[string]float64, stats *Stats) error {
	names := make([]string, 0, len(handpacks))
	for name := range handpacks {
		names = append(names, name)
	}
	sort.Strings(names)

	current := store.Snapshot().Handpacks
	for _, name := range names {
		if _, ok := current[name]; ok {
			stats.Unchanged++
			continue
		}
		if err := store.UpsertHandpack(name, handpacks[name]); err != nil {
			return fmt.Errorf("seed hand-pack %q: %w", name, err)
		}
		stats.Inserts++
	}
	return nil
}
