package report

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Printer turns an HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromePrinter prints through a headless Chrome/Chromium.
type ChromePrinter struct {
	// ExecPath overrides browser detection when set.
	ExecPath string
}

// DetectChromePath checks CHROME_PATH first, then common installation paths.
// It returns "" when nothing is found and chromedp should search on its own.
func DetectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (p ChromePrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if execPath := p.ExecPath; execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	} else if execPath := DetectChromePath(); execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// US letter, landscape; margins come from the page CSS.
			pdf, _, err = page.PrintToPDF().
				WithLandscape(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}
