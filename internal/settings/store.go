package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/lines"
)

var errNoChange = errors.New("no change")

// Store owns the live configuration and the file it persists to. Every
// mutation is written to disk before it becomes visible; a failed write
// leaves both the file and the in-memory state unchanged.
type Store struct {
	mu     sync.Mutex
	path   string
	cfg    Configuration
	logger *zap.Logger
}

// Open loads the configuration at path into a new Store.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg, logger: logger}, nil
}

func (s *Store) Path() string { return s.path }

// Snapshot returns a deep copy of the current configuration.
func (s *Store) Snapshot() Configuration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Save writes the current configuration as is.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Save(s.path, s.cfg)
}

// HandpackNames lists the catalog in sorted order.
func (s *Store) HandpackNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cfg.Handpacks))
	for name := range s.cfg.Handpacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) mutate(op string, fn func(*Configuration) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := Save(s.path, next); err != nil {
		s.logger.Error("settings not saved", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.cfg = next
	s.logger.Debug("settings saved", zap.String("op", op), zap.String("path", s.path))
	return nil
}

// UpsertHandpack adds a hand-pack or replaces its price.
func (s *Store) UpsertHandpack(name string, price float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if !validAmount(price) {
		return ErrInvalidPrice
	}
	return s.mutate("upsert handpack", func(c *Configuration) error {
		c.Handpacks[name] = price
		return nil
	})
}

// DeleteHandpack removes a hand-pack. It reports false, without writing, when
// the name is not in the catalog.
func (s *Store) DeleteHandpack(name string) (bool, error) {
	found := false
	err := s.mutate("delete handpack", func(c *Configuration) error {
		if _, ok := c.Handpacks[name]; !ok {
			return errNoChange
		}
		found = true
		delete(c.Handpacks, name)
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return found, err
}

// SetMachinePrice replaces the price pair of one metered line.
func (s *Store) SetMachinePrice(line lines.ID, over, under float64) error {
	if !lines.IsMetered(line) {
		return fmt.Errorf("%s: %w", line, ErrUnknownLine)
	}
	if !validAmount(over) || !validAmount(under) {
		return ErrInvalidPrice
	}
	return s.mutate("set machine price", func(c *Configuration) error {
		c.Prices[line] = PricePair{over, under}
		return nil
	})
}

// SetMachinePrices replaces several price pairs with a single write.
func (s *Store) SetMachinePrices(prices map[lines.ID]PricePair) error {
	for line, pair := range prices {
		if !lines.IsMetered(line) {
			return fmt.Errorf("%s: %w", line, ErrUnknownLine)
		}
		if !validAmount(pair[0]) || !validAmount(pair[1]) {
			return ErrInvalidPrice
		}
	}
	if len(prices) == 0 {
		return nil
	}
	return s.mutate("set machine prices", func(c *Configuration) error {
		for line, pair := range prices {
			c.Prices[line] = pair
		}
		return nil
	})
}

func (s *Store) SetQuantityThreshold(n int) error {
	if n <= 0 {
		return ErrInvalidThreshold
	}
	return s.mutate("set quantity threshold", func(c *Configuration) error {
		c.QtyThreshold = n
		return nil
	})
}

func (s *Store) SetWage(wage float64) error {
	if !validAmount(wage) {
		return ErrInvalidWage
	}
	return s.mutate("set wage", func(c *Configuration) error {
		c.Wage = wage
		return nil
	})
}

// RecordRecentName moves name to the front of the recent list, keeping at most
// MaxRecentNames entries.
func (s *Store) RecordRecentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.mutate("record recent name", func(c *Configuration) error {
		c.RecentNames = pushRecent(c.RecentNames, name)
		return nil
	})
}

func pushRecent(names []string, name string) []string {
	out := make([]string, 0, MaxRecentNames)
	out = append(out, name)
	for _, n := range names {
		if n == name {
			continue
		}
		if len(out) == MaxRecentNames {
			break
		}
		out = append(out, n)
	}
	return out
}
