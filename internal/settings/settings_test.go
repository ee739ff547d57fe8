package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Simplici0/shiftreport/internal/lines"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Wage != 10 || cfg.QtyThreshold != 5000 {
		t.Fatalf("unexpected defaults: wage=%v threshold=%d", cfg.Wage, cfg.QtyThreshold)
	}
	if got := cfg.Prices[lines.AZ]; got != (PricePair{0.235, 0.382}) {
		t.Fatalf("AZ prices=%v", got)
	}
	if len(cfg.Prices) != 5 {
		t.Fatalf("expected 5 default price pairs, got %d", len(cfg.Prices))
	}
	if len(cfg.Handpacks) != 0 || len(cfg.RecentNames) != 0 {
		t.Fatalf("expected empty handpacks and recent names: %+v", cfg)
	}
}

func TestLoadMalformedFileIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"wage": 10,`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Path != path {
		t.Fatalf("ConfigError.Path=%q, want %q", cfgErr.Path, path)
	}
}

func TestLoadRejectsPricePairOfWrongLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"prices": {"AZ": [0.2]}}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for one-element price pair")
	}
}

func TestLoadRejectsNonPositiveThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"qty_threshold": 0}`), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestLoadRejectsDuplicateOrBlankRecentNames(t *testing.T) {
	for _, body := range []string{
		`{"recent_names": ["Ana", "Ana"]}`,
		`{"recent_names": ["Ana", "  "]}`,
	} {
		path := filepath.Join(t.TempDir(), "settings.json")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write settings: %v", err)
		}

		var cfgErr *ConfigError
		if _, err := Load(path); !errors.As(err, &cfgErr) {
			t.Fatalf("%s: expected *ConfigError, got %v", body, err)
		}
	}
}

func TestDecodeFillsMissingKeys(t *testing.T) {
	cfg, err := Decode([]byte(`{"handpacks": {"Tray 12": 1.25}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Wage != DefaultWage || cfg.QtyThreshold != DefaultQtyThreshold {
		t.Fatalf("missing wage/threshold not defaulted: %+v", cfg)
	}
	if cfg.Prices == nil || len(cfg.Prices) != 0 {
		t.Fatalf("expected empty non-nil prices, got %v", cfg.Prices)
	}
	if cfg.Handpacks["Tray 12"] != 1.25 {
		t.Fatalf("handpack not decoded: %v", cfg.Handpacks)
	}
}

func TestSaveLoadRoundTripIsByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	cfg := Default()
	cfg.Wage = 12.75
	cfg.QtyThreshold = 4200
	cfg.RecentNames = []string{"Dana Cruz", "Lee Park"}
	cfg.Handpacks = map[string]float64{"Tray 12": 1.25, "Box 6": 0.5}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Save(path, loaded); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("round trip changed bytes:\n%s\n---\n%s", first, second)
	}
	if loaded.Wage != 12.75 || loaded.QtyThreshold != 4200 || loaded.RecentNames[1] != "Lee Park" {
		t.Fatalf("unexpected loaded config: %+v", loaded)
	}
}

func TestEncodeUsesSnakeCaseKeysAndEmptyCollections(t *testing.T) {
	cfg := Configuration{Wage: 10, QtyThreshold: 5000}
	data, err := Encode(cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := `{
  "wage": 10,
  "qty_threshold": 5000,
  "recent_names": [],
  "prices": {},
  "handpacks": {}
}
`
	if string(data) != want {
		t.Fatalf("Encode=\n%s\nwant\n%s", data, want)
	}
}

func TestCloneDoesNotShareMaps(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Prices[lines.AZ] = PricePair{9, 9}
	clone.RecentNames = append(clone.RecentNames, "x")

	if cfg.Prices[lines.AZ] == (PricePair{9, 9}) {
		t.Fatalf("clone shares the prices map")
	}
	if len(cfg.RecentNames) != 0 {
		t.Fatalf("clone shares recent names")
	}
}
