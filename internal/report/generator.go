package report

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/atomicfile"
	"github.com/Simplici0/shiftreport/internal/pricing"
)

// RenderError reports a failure while producing the report document.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render report: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Generator renders reports into an output directory.
type Generator struct {
	printer   Printer
	outputDir string
	logoPath  string
	logger    *zap.Logger
}

// NewGenerator returns a Generator. An empty logoPath renders without a logo.
func NewGenerator(printer Printer, outputDir, logoPath string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		printer:   printer,
		outputDir: outputDir,
		logoPath:  logoPath,
		logger:    logger,
	}
}

// Generate writes the report PDF and returns its path. The file only appears
// once it is complete; a same-day report is replaced.
func (g *Generator) Generate(ctx context.Context, meta Meta, result pricing.Result) (string, error) {
	doc := Build(meta, result)

	logo := ""
	if g.logoPath != "" {
		var err error
		if logo, err = LoadLogo(g.logoPath); err != nil {
			return "", &RenderError{Op: "logo", Err: err}
		}
	}

	html, err := HTML(doc, logo)
	if err != nil {
		return "", &RenderError{Op: "layout", Err: err}
	}

	pdf, err := g.printer.PrintPDF(ctx, html)
	if err != nil {
		return "", &RenderError{Op: "print", Err: err}
	}

	path := filepath.Join(g.outputDir, FileName(meta.Date))
	if err := atomicfile.Write(path, pdf, 0o644); err != nil {
		return "", &RenderError{Op: "write", Err: err}
	}

	g.logger.Info("report generated",
		zap.String("path", path),
		zap.String("operator", meta.Name),
		zap.Int("shift", meta.Shift),
		zap.Int("bytes", len(pdf)),
	)
	return path, nil
}
