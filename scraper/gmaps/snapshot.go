package gmaps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"gmaps-scraper/utils"
)

// ErrNotSearchPage is returned when a capture is requested for a URL that
// is not a search results page.
var ErrNotSearchPage = errors.New("gmaps: not a maps search results page")

// SnapshotOptions configures the headless browser used for live captures.
type SnapshotOptions struct {
	ChromeBin  string
	Headless   bool
	Timeout    time.Duration
	MaxRetries int
}

// Snapshotter loads a search results page in Chrome once and returns the
// rendered DOM as HTML. It does not scroll the feed or follow pagination.
type Snapshotter struct {
	opts      SnapshotOptions
	extractor *Extractor
	logger    *utils.Logger
	retry     *utils.RetryConfig
}

// NewSnapshotter creates a Snapshotter that shares its rules with x.
func NewSnapshotter(opts SnapshotOptions, x *Extractor, logger *utils.Logger) *Snapshotter {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &Snapshotter{
		opts:      opts,
		extractor: x,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture returns the outer HTML of the rendered results page at pageURL.
func (s *Snapshotter) Capture(ctx context.Context, pageURL string) (string, error) {
	if !s.extractor.IsSearchPage(pageURL) {
		return "", fmt.Errorf("%w: %s", ErrNotSearchPage, pageURL)
	}

	chromeBin := findChromeBinary(s.opts.ChromeBin)
	s.logger.Info("[gmaps] Using browser binary: %s", orDefault(chromeBin, "chromedp default"))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	feed := s.extractor.Rules().FeedSelector
	var page string

	err := s.retry.Do(ctx, "capture-results", func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.opts.Timeout)
		defer cancelTimeout()

		if err := chromedp.Run(tabCtx, chromedp.Navigate(pageURL)); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
		acceptConsent(tabCtx)

		actions := []chromedp.Action{}
		if feed != "" {
			actions = append(actions, chromedp.WaitReady(feed, chromedp.ByQuery))
		}
		actions = append(actions, chromedp.OuterHTML("html", &page, chromedp.ByQuery))
		if err := chromedp.Run(tabCtx, actions...); err != nil {
			return fmt.Errorf("read results dom: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("gmaps: capture %s: %w", pageURL, err)
	}

	if feed != "" && !hasFeed(page, feed) {
		s.logger.Warn("[gmaps] Snapshot of %s has no %s element", pageURL, feed)
	}
	return page, nil
}

// acceptConsent dismisses the cookie consent screen when one is shown.
func acceptConsent(ctx context.Context) {
	selectors := []string{
		`button[aria-label="Accept all"]`,
		`button[aria-label="Accept all cookies"]`,
		`button[aria-label="I agree"]`,
	}
	for _, sel := range selectors {
		clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
		cancel()
		if err == nil {
			return
		}
	}
}

func hasFeed(page, selector string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return false
	}
	return doc.Find(selector).Length() > 0
}

// findChromeBinary locates a Chrome/Chromium binary. An empty result lets
// chromedp fall back to its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
