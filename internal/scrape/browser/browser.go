// Package browser owns the headless Chrome lifecycle shared by the site
// adapters and the contact crawler. One Session maps to one browser
// process; tabs are cheap child contexts on top of it.
package browser

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// blockedPatterns keeps heavy assets off the wire. Scraping only reads
// DOM text and attribute values, never pixels.
var blockedPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg",
	"*.woff", "*.woff2", "*.ttf", "*.otf",
	"*.mp4", "*.webm", "*.avi", "*.mp3",
}

type Session struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	log         *logrus.Logger
}

// NewSession starts a browser allocator. CHROME_PATH overrides binary
// discovery for containerized deployments.
func NewSession(parent context.Context, log *logrus.Logger) *Session {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(defaultUserAgent),
	)
	if path := os.Getenv("CHROME_PATH"); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	return &Session{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		log:         log,
	}
}

// NewTab opens a fresh tab with asset blocking enabled. The returned
// cancel must be called on every exit path.
func (s *Session) NewTab() (context.Context, context.CancelFunc) {
	tab, cancel := chromedp.NewContext(s.allocCtx)

	if err := chromedp.Run(tab,
		network.Enable(),
		network.SetBlockedURLS(blockedPatterns),
	); err != nil {
		s.log.WithError(err).Warn("asset blocking setup failed")
	}
	return tab, cancel
}

// Navigate loads a URL and waits for the body to exist, bounded by
// timeout so a stuck site cannot hang a whole run.
func (s *Session) Navigate(tab context.Context, url string, timeout time.Duration) error {
	return RunWithTimeout(tab, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// RunWithTimeout runs actions on tab under a per-operation deadline.
func RunWithTimeout(tab context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(tab, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *Session) Close() {
	s.allocCancel()
}
