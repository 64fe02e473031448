// Package google adapts the Google jobs panel as a posting source. The
// panel is a client-rendered list: each card must be clicked to reveal
// the detail pane, so the adapter walks cards one at a time, re-querying
// the list after every back navigation because node references go stale.
package google

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/scrape/browser"
)

const (
	selPanelOpen = ".jRKCUd .ZFiwCf"
	selJobCard   = ".u9g6vf"
	selTitle     = ".LZAQDf.cS4Vcb-pGL6qe-IRrXtf"
	selCompany   = ".UxTHrf"
	selImage     = ".YQ4gaf.zr758c"

	// detailDelay lets the detail pane hydrate after a card click;
	// backDelay does the same for the list after navigating back.
	detailDelay = 2 * time.Second
	backDelay   = time.Second

	maxCards = 20
)

type Provider struct {
	session *browser.Session
	limiter *scrape.HostLimiter
	log     *logrus.Logger
}

func New(session *browser.Session, limiter *scrape.HostLimiter, log *logrus.Logger) *Provider {
	return &Provider{session: session, limiter: limiter, log: log}
}

func (p *Provider) Name() string { return "google" }

func (p *Provider) Search(ctx context.Context, q scrape.Query) ([]models.Posting, error) {
	tab, closeTab := p.session.NewTab()
	defer closeTab()

	query := fmt.Sprintf("%s %s jobs in %s", q.Experience, q.Skill, q.Location)
	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(query)

	if err := p.limiter.WaitURL(ctx, searchURL); err != nil {
		return nil, err
	}
	if err := p.session.Navigate(tab, searchURL, 30*time.Second); err != nil {
		return nil, fmt.Errorf("google: open search: %w", err)
	}

	// The jobs panel only appears after clicking the "more jobs" strip.
	if err := browser.RunWithTimeout(tab, 30*time.Second,
		chromedp.WaitVisible(selPanelOpen, chromedp.ByQuery),
		chromedp.Click(selPanelOpen, chromedp.ByQuery),
		chromedp.WaitVisible(selJobCard, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("google: open jobs panel: %w", err)
	}

	return collectPostings(ctx, &panelCards{tab: tab}, maxCards, p.log), nil
}

// cardWalker abstracts the live jobs panel so the walk's bookkeeping is
// testable without a browser.
type cardWalker interface {
	Count() (int, error)
	Read(i int) (models.Posting, error)
	Back() error
}

// collectPostings walks the card list in index order. Each card's
// posting is banked before the back navigation, so losing the list only
// costs later cards, never the one already read. A failed back
// navigation ends the walk: the list is presumed unreachable.
func collectPostings(ctx context.Context, cards cardWalker, max int, log *logrus.Logger) []models.Posting {
	var out []models.Posting
	for i := 0; i < max; i++ {
		if ctx.Err() != nil {
			break
		}

		n, err := cards.Count()
		if err != nil || i >= n {
			break
		}

		posting, err := cards.Read(i)
		if err != nil {
			log.WithError(err).WithField("card", i).Debug("job card skipped")
		} else if posting.Title != "" && posting.Company != "" {
			out = append(out, posting)
		}

		if err := cards.Back(); err != nil {
			log.WithError(err).Debug("jobs list unreachable, stopping")
			break
		}
	}
	return out
}

// panelCards drives the real panel through chromedp.
type panelCards struct {
	tab context.Context
}

func (pc *panelCards) Count() (int, error) {
	cards, err := pc.nodes()
	return len(cards), err
}

// nodes re-queries the card list. Fresh query every time: each back
// navigation invalidates previously resolved nodes.
func (pc *panelCards) nodes() ([]*cdp.Node, error) {
	var cards []*cdp.Node
	err := browser.RunWithTimeout(pc.tab, 15*time.Second,
		chromedp.Nodes(selJobCard, &cards, chromedp.ByQueryAll),
	)
	return cards, err
}

func (pc *panelCards) Read(i int) (models.Posting, error) {
	var posting models.Posting

	cards, err := pc.nodes()
	if err != nil {
		return posting, err
	}
	if i >= len(cards) {
		return posting, fmt.Errorf("card %d not present after renavigation", i)
	}

	if err := browser.RunWithTimeout(pc.tab, 20*time.Second,
		chromedp.MouseClickNode(cards[i]),
		chromedp.Sleep(detailDelay),
	); err != nil {
		return posting, fmt.Errorf("open detail: %w", err)
	}

	var detail struct {
		Title   string `json:"title"`
		Company string `json:"company"`
		Image   string `json:"image"`
		Link    string `json:"link"`
	}
	err = browser.RunWithTimeout(pc.tab, 15*time.Second,
		chromedp.Evaluate(fmt.Sprintf(`(() => {
			const pick = sel => {
				const el = document.querySelector(sel);
				return el ? el.textContent.trim() : "";
			};
			const img = document.querySelector(%q);
			return {
				title:   pick(%q),
				company: pick(%q),
				image:   img ? (img.src || "") : "",
				link:    window.location.href,
			};
		})()`, selImage, selTitle, selCompany), &detail),
	)
	if err != nil {
		return posting, fmt.Errorf("read detail: %w", err)
	}

	posting.Title = detail.Title
	posting.Company = detail.Company
	posting.ImageURL = detail.Image
	posting.Link = detail.Link
	return posting, nil
}

func (pc *panelCards) Back() error {
	return browser.RunWithTimeout(pc.tab, 20*time.Second,
		chromedp.NavigateBack(),
		chromedp.Sleep(backDelay),
	)
}
