package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/history"
	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/pricing"
	"github.com/Simplici0/shiftreport/internal/report"
	"github.com/Simplici0/shiftreport/internal/settings"
	"github.com/Simplici0/shiftreport/internal/validate"
	"github.com/Simplici0/shiftreport/internal/worker"
)

// PriceText is a machine price pair as typed by the operator.
type PriceText struct {
	Over  string `json:"over" yaml:"over"`
	Under string `json:"under" yaml:"under"`
}

// Submission is the raw input of one report, before validation.
type Submission struct {
	Name   string                         `json:"name" yaml:"name"`
	Shift  string                         `json:"shift" yaml:"shift"`
	Notes  string                         `json:"notes" yaml:"notes"`
	Wage   string                         `json:"wage" yaml:"wage"`
	Lines  map[lines.ID]pricing.LineEntry `json:"lines" yaml:"lines"`
	// Prices are the machine prices shown next to each metered line. A line
	// left blank uses the stored pair.
	Prices map[lines.ID]PriceText `json:"prices" yaml:"prices"`
}

// Renderer writes a report document and returns its path.
type Renderer interface {
	Generate(ctx context.Context, meta report.Meta, result pricing.Result) (string, error)
}

// Recorder archives generated reports.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Service runs the report flow: validate, persist, calculate, render.
type Service struct {
	store    *settings.Store
	renderer Renderer
	archive  Recorder
	worker   *worker.Worker
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Service. archive may be nil, in which case reports are not archived.
func New(store *settings.Store, renderer Renderer, archive Recorder, w *worker.Worker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		renderer: renderer,
		archive:  archive,
		worker:   w,
		logger:   logger,
		now:      time.Now,
	}
}

// Prepare validates a submission and turns it into a calculator request.
// Nothing is persisted.
func (s *Service) Prepare(sub Submission) (pricing.Request, error) {
	name, err := validate.Required(sub.Name, "name")
	if err != nil {
		return pricing.Request{}, err
	}

	if strings.TrimSpace(sub.Shift) == "" {
		return pricing.Request{}, &validate.Error{Field: "shift", Message: "is required"}
	}
	shift, err := validate.IntInRange(sub.Shift, "shift", 1, 2)
	if err != nil {
		return pricing.Request{}, err
	}

	wage, err := validate.PositiveFloat(sub.Wage, "wage")
	if err != nil {
		return pricing.Request{}, err
	}

	entries := make(map[lines.ID]pricing.LineEntry, len(sub.Lines))
	for key, entry := range sub.Lines {
		id, ok := lines.Parse(string(key))
		if !ok {
			return pricing.Request{}, &validate.Error{Field: "lines", Message: fmt.Sprintf("has unknown line %q", key)}
		}
		if _, dup := entries[id]; dup {
			return pricing.Request{}, &validate.Error{Field: "lines", Message: fmt.Sprintf("lists line %s more than once", id)}
		}
		if entry.People < 0 {
			return pricing.Request{}, &validate.Error{Field: string(id) + "_ple", Message: "must be greater than or equal to 0"}
		}
		if entry.Hours < 0 {
			return pricing.Request{}, &validate.Error{Field: string(id) + "_hrs", Message: "must be greater than or equal to 0"}
		}
		entry.RunType = strings.TrimSpace(entry.RunType)
		if entry.RunType == "" {
			entry.RunType = lines.NotRun
		}
		entries[id] = entry
	}

	prices, err := parsePrices(sub.Prices)
	if err != nil {
		return pricing.Request{}, err
	}

	return pricing.Request{
		Name:   name,
		Shift:  shift,
		Lines:  entries,
		Notes:  strings.TrimSpace(sub.Notes),
		Wage:   wage,
		Prices: prices,
	}, nil
}

func parsePrices(texts map[lines.ID]PriceText) (map[lines.ID]settings.PricePair, error) {
	prices := make(map[lines.ID]settings.PricePair, len(texts))
	seen := make(map[lines.ID]bool, len(texts))
	for key, text := range texts {
		id, ok := lines.Parse(string(key))
		if !ok || !lines.IsMetered(id) {
			return nil, &validate.Error{Field: "prices", Message: fmt.Sprintf("has no machine line %q", key)}
		}
		if seen[id] {
			return nil, &validate.Error{Field: "prices", Message: fmt.Sprintf("lists line %s more than once", id)}
		}
		seen[id] = true
		if strings.TrimSpace(text.Over) == "" && strings.TrimSpace(text.Under) == "" {
			continue
		}
		over, err := validate.NonNegativeFloat(text.Over, string(id)+"_over")
		if err != nil {
			return nil, err
		}
		under, err := validate.NonNegativeFloat(text.Under, string(id)+"_under")
		if err != nil {
			return nil, err
		}
		prices[id] = settings.PricePair{over, under}
	}
	return prices, nil
}

// Preview validates and calculates a submission without saving or rendering.
func (s *Service) Preview(sub Submission) (pricing.Result, error) {
	req, err := s.Prepare(sub)
	if err != nil {
		return pricing.Result{}, err
	}
	return pricing.Calculate(req, s.store.Snapshot()), nil
}

// Generate validates the submission, saves the operator name, wage and
// machine prices, and hands the render to the worker. Validation and save
// errors are returned directly; the render outcome arrives on the channel.
func (s *Service) Generate(ctx context.Context, sub Submission) (<-chan worker.Outcome, error) {
	req, err := s.Prepare(sub)
	if err != nil {
		return nil, err
	}

	// Hold the worker slot before saving so a rejected submission leaves the
	// settings untouched.
	slot, err := s.worker.Reserve()
	if err != nil {
		return nil, err
	}

	if err := s.save(req); err != nil {
		slot.Release()
		return nil, err
	}

	result := pricing.Calculate(req, s.store.Snapshot())
	meta := report.Meta{
		Name:  req.Name,
		Shift: req.Shift,
		Date:  s.now(),
		Notes: req.Notes,
	}

	return slot.Submit(func(jobCtx context.Context) (string, error) {
		path, err := s.renderer.Generate(jobCtx, meta, result)
		if err != nil {
			s.logger.Error("report generation failed", zap.Error(err), zap.String("operator", meta.Name))
			return "", err
		}
		s.recordHistory(jobCtx, meta, result, path)
		return path, nil
	})
}

func (s *Service) save(req pricing.Request) error {
	if err := s.store.RecordRecentName(req.Name); err != nil {
		return fmt.Errorf("save operator name: %w", err)
	}
	if err := s.store.SetWage(req.Wage); err != nil {
		return fmt.Errorf("save wage: %w", err)
	}
	if err := s.store.SetMachinePrices(req.Prices); err != nil {
		return fmt.Errorf("save machine prices: %w", err)
	}
	return nil
}

// recordHistory archives a written report. The report file already exists,
// so an archive failure is logged and not reported to the operator.
func (s *Service) recordHistory(ctx context.Context, meta report.Meta, result pricing.Result, path string) {
	if s.archive == nil {
		return
	}
	entry, err := s.archive.Record(ctx, history.Entry{
		ReportDate: meta.Date.Format("2006-01-02"),
		Operator:   meta.Name,
		Shift:      meta.Shift,
		Notes:      meta.Notes,
		OutputPath: path,
		Totals:     result.Totals,
		Rows:       result.Rows,
	})
	if err != nil {
		s.logger.Warn("archive report", zap.Error(err), zap.String("path", path))
		return
	}
	s.logger.Debug("report archived", zap.String("id", entry.ID))
}
