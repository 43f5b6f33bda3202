package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper and margins in inches, as Chrome's print API expects them.
const (
	paperWidth   = 8.27
	paperHeight  = 11.69
	marginTopBot = 0.79 // 20 mm
	marginSides  = 0.59 // 15 mm
)

// ChromeEngine prints HTML with a headless Chrome started per call.
type ChromeEngine struct {
	execPath string
	timeout  time.Duration
}

// NewChromeEngine returns an engine using the browser at execPath, or the
// first one chromedp finds when execPath is empty.
func NewChromeEngine(execPath string, timeout time.Duration) *ChromeEngine {
	return &ChromeEngine{execPath: execPath, timeout: timeout}
}

// PrintPDF loads html into a blank page and prints it to A4 with backgrounds.
func (e *ChromeEngine) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	const op = "services.calendar.ChromeEngine.PrintPDF"

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTopBot).
				WithMarginBottom(marginTopBot).
				WithMarginLeft(marginSides).
				WithMarginRight(marginSides).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pdf, nil
}
