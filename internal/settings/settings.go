package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/Simplici0/shiftreport/internal/atomicfile"
	"github.com/Simplici0/shiftreport/internal/lines"
)

const (
	DefaultWage         = 10.00
	DefaultQtyThreshold = 5000
	MaxRecentNames      = 10
)

var (
	ErrInvalidPrice     = errors.New("price must be a non-negative number")
	ErrInvalidWage      = errors.New("wage must be a non-negative number")
	ErrInvalidThreshold = errors.New("quantity threshold must be greater than 0")
	ErrUnknownLine      = errors.New("not a metered line")
	ErrEmptyName        = errors.New("name is required")
)

// ConfigError reports a settings file that exists but cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("settings file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PricePair holds the tiered prices of a metered line: index 0 applies over the
// quantity threshold, index 1 at or under it.
type PricePair [2]float64

func (p PricePair) Over() float64  { return p[0] }
func (p PricePair) Under() float64 { return p[1] }

func (p *PricePair) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if len(values) != 2 {
		return fmt.Errorf("price pair must have 2 values, got %d", len(values))
	}
	p[0], p[1] = values[0], values[1]
	return nil
}

// Configuration is the persisted pricing configuration.
type Configuration struct {
	Wage         float64                `json:"wage"`
	QtyThreshold int                    `json:"qty_threshold"`
	RecentNames  []string               `json:"recent_names"`
	Prices       map[lines.ID]PricePair `json:"prices"`
	Handpacks    map[string]float64     `json:"handpacks"`
}

// Default returns the built-in configuration used when no settings file exists.
func Default() Configuration {
	return Configuration{
		Wage:         DefaultWage,
		QtyThreshold: DefaultQtyThreshold,
		RecentNames:  []string{},
		Prices: map[lines.ID]PricePair{
			lines.AZ: {0.235, 0.382},
			lines.BZ: {0.257, 0.471},
			lines.DZ: {0.268, 0.530},
			lines.EZ: {0.331, 0.535},
			lines.FZ: {0.407, 0.637},
		},
		Handpacks: map[string]float64{},
	}
}

// Clone returns a deep copy so readers never share maps with the store.
func (c Configuration) Clone() Configuration {
	out := Configuration{
		Wage:         c.Wage,
		QtyThreshold: c.QtyThreshold,
		RecentNames:  append([]string{}, c.RecentNames...),
		Prices:       make(map[lines.ID]PricePair, len(c.Prices)),
		Handpacks:    make(map[string]float64, len(c.Handpacks)),
	}
	for k, v := range c.Prices {
		out.Prices[k] = v
	}
	for k, v := range c.Handpacks {
		out.Handpacks[k] = v
	}
	return out
}

// Validate checks the invariants every stored configuration must hold.
func (c Configuration) Validate() error {
	if !validAmount(c.Wage) {
		return ErrInvalidWage
	}
	if c.QtyThreshold <= 0 {
		return ErrInvalidThreshold
	}
	for id, pair := range c.Prices {
		if !lines.IsMetered(id) {
			return fmt.Errorf("prices[%s]: %w", id, ErrUnknownLine)
		}
		if !validAmount(pair[0]) || !validAmount(pair[1]) {
			return fmt.Errorf("prices[%s]: %w", id, ErrInvalidPrice)
		}
	}
	for name, price := range c.Handpacks {
		if !validAmount(price) {
			return fmt.Errorf("handpacks[%s]: %w", name, ErrInvalidPrice)
		}
	}
	if len(c.RecentNames) > MaxRecentNames {
		return fmt.Errorf("recent_names holds %d entries, limit is %d", len(c.RecentNames), MaxRecentNames)
	}
	seen := make(map[string]bool, len(c.RecentNames))
	for i, name := range c.RecentNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("recent_names[%d]: %w", i, ErrEmptyName)
		}
		if seen[name] {
			return fmt.Errorf("recent_names[%d]: %q is listed more than once", i, name)
		}
		seen[name] = true
	}
	return nil
}

// validAmount accepts finite non-negative money values.
func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// fileFormat mirrors Configuration with optional fields so absent keys can be told
// apart from zero values.
type fileFormat struct {
	Wage         *float64               `json:"wage"`
	QtyThreshold *int                   `json:"qty_threshold"`
	RecentNames  []string               `json:"recent_names"`
	Prices       map[lines.ID]PricePair `json:"prices"`
	Handpacks    map[string]float64     `json:"handpacks"`
}

// Load reads the configuration at path. A missing file yields Default(); a file
// that exists but cannot be read, parsed or validated yields a *ConfigError.
func Load(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Configuration{}, &ConfigError{Path: path, Err: err}
	}

	cfg, err := Decode(data)
	if err != nil {
		return Configuration{}, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// Decode parses a settings document. Missing wage and threshold take their
// defaults; missing collections are empty.
func Decode(data []byte) (Configuration, error) {
	var raw fileFormat
	if err := json.Unmarshal(data, &raw); err != nil {
		return Configuration{}, fmt.Errorf("parse settings: %w", err)
	}

	cfg := Configuration{
		Wage:         DefaultWage,
		QtyThreshold: DefaultQtyThreshold,
		RecentNames:  raw.RecentNames,
		Prices:       raw.Prices,
		Handpacks:    raw.Handpacks,
	}
	if raw.Wage != nil {
		cfg.Wage = *raw.Wage
	}
	if raw.QtyThreshold != nil {
		cfg.QtyThreshold = *raw.QtyThreshold
	}
	cfg = cfg.Clone()

	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// Encode serializes the configuration as indented JSON.
func Encode(cfg Configuration) ([]byte, error) {
	cfg = cfg.Clone()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return append(data, '\n'), nil
}

// Save overwrites path with cfg without ever leaving a truncated file behind.
func Save(path string, cfg Configuration) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
