package web

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/joelkehle/trek-itinerary/internal/itinerary"
)

// ItineraryPDFRenderer turns a rendered itinerary into a PDF document.
type ItineraryPDFRenderer interface {
	Render(ctx context.Context, doc PDFDocument) ([]byte, error)
}

type PDFDocument struct {
	Location    string
	GeneratedAt time.Time
	Outcome     itinerary.Outcome
}

type ChromiumPDFRenderer struct {
	chromePath string
	timeout    time.Duration
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{
		chromePath: detectChromePath(),
		timeout:    30 * time.Second,
	}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, doc PDFDocument) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, r.allocatorOptions()...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(buildItineraryHTML(doc)))
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("pre, p.itinerary-error", chromedp.ByQuery),
		printItinerary(&pdf),
	)
	if err != nil {
		return nil, fmt.Errorf("render itinerary pdf: %w", err)
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	return opts
}

// printItinerary prints the loaded page on A4 with a page-number footer.
func printItinerary(out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
			`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`
		buf, _, err := page.PrintToPDF().
			WithPrintBackground(false).
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(`<div></div>`).
			WithFooterTemplate(footer).
			WithPaperWidth(8.27).
			WithPaperHeight(11.69).
			WithMarginTop(0.6).
			WithMarginBottom(0.8).
			WithMarginLeft(0.6).
			WithMarginRight(0.6).
			Do(ctx)
		if err != nil {
			return err
		}
		*out = buf
		return nil
	})
}

// buildItineraryHTML wraps the region fragment in a printable page. The
// itinerary text is escaped the same way the live region escapes it.
func buildItineraryHTML(doc PDFDocument) string {
	title := "Trek itinerary"
	if doc.Location != "" {
		title += ": " + doc.Location
	}
	meta := ""
	if !doc.GeneratedAt.IsZero() {
		meta = "<div class='meta'>" + html.EscapeString(doc.GeneratedAt.Format("January 2, 2006 at 3:04 PM MST")) + "</div>"
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>body{font-family:Georgia,serif;color:#1c1917;padding:0.6rem;} h1{font-size:1.4rem;} " +
		".meta{color:#57534e;font-size:0.85rem;margin-bottom:1rem;} " +
		"pre.itinerary-reply{white-space:pre-wrap;font-family:inherit;font-size:0.95rem;} " +
		".itinerary-error{color:#991b1b;}</style></head><body>" +
		"<h1>" + html.EscapeString(title) + "</h1>" + meta +
		itinerary.RenderOutcome(doc.Outcome) +
		"</body></html>"
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
