// Package indeed adapts Indeed's server-rendered result pages as a
// posting source. Pagination uses the start offset in steps of ten;
// parsing is plain HTML over goquery so it is testable without a
// browser.
package indeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/scrape/browser"
)

const (
	// MaxPages bounds pagination; Indeed repeats results past a few pages
	// for broad queries anyway.
	MaxPages = 3
	pageStep = 10
)

// FetchFunc returns the rendered HTML for one results URL. Injected so
// pagination logic is testable without Chrome.
type FetchFunc func(ctx context.Context, url string) (string, error)

type Provider struct {
	fetch   FetchFunc
	limiter *scrape.HostLimiter
	log     *logrus.Logger
}

// New builds a provider that renders pages through the given browser
// session. Indeed serves an empty shell to plain HTTP clients, so the
// default fetch goes through Chrome.
func New(session *browser.Session, limiter *scrape.HostLimiter, log *logrus.Logger) *Provider {
	return &Provider{
		fetch:   chromeFetch(session),
		limiter: limiter,
		log:     log,
	}
}

// NewWithFetch is the test seam.
func NewWithFetch(fetch FetchFunc, limiter *scrape.HostLimiter, log *logrus.Logger) *Provider {
	return &Provider{fetch: fetch, limiter: limiter, log: log}
}

func (p *Provider) Name() string { return "indeed" }

func (p *Provider) Search(ctx context.Context, q scrape.Query) ([]models.Posting, error) {
	query := fmt.Sprintf("%s %s", q.Experience, q.Skill)

	var postings []models.Posting
	for page := 0; page < MaxPages; page++ {
		pageURL := fmt.Sprintf(
			"https://www.indeed.com/jobs?q=%s&l=%s&start=%d",
			url.QueryEscape(query), url.QueryEscape(q.Location), page*pageStep,
		)
		if err := p.limiter.WaitURL(ctx, pageURL); err != nil {
			return postings, err
		}

		html, err := p.fetch(ctx, pageURL)
		if err != nil {
			// A failed page ends pagination; earlier pages still count.
			p.log.WithError(err).WithField("page", page).Warn("indeed page fetch failed")
			break
		}

		cards, err := ParseCards(html)
		if err != nil {
			return postings, fmt.Errorf("indeed: parse page %d: %w", page, err)
		}
		if len(cards) == 0 {
			break
		}
		postings = append(postings, cards...)
	}
	return postings, nil
}

// ParseCards extracts postings from one rendered results page. Each
// field has a data-testid fallback because Indeed ships both markup
// generations concurrently.
func ParseCards(html string) ([]models.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var out []models.Posting
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h2.jobTitle span").First().Text())

		company := strings.TrimSpace(card.Find("span.companyName").First().Text())
		if company == "" {
			company = strings.TrimSpace(card.Find(`span[data-testid="company-name"]`).First().Text())
		}

		location := strings.TrimSpace(card.Find("div.companyLocation").First().Text())
		if location == "" {
			location = strings.TrimSpace(card.Find(`div[data-testid="text-location"]`).First().Text())
		}

		link, _ := card.Find("h2.jobTitle a").First().Attr("href")
		if link != "" && strings.HasPrefix(link, "/") {
			link = "https://www.indeed.com" + link
		}

		if title == "" || company == "" {
			return
		}
		out = append(out, models.Posting{
			Title:    title,
			Company:  company,
			Location: location,
			Link:     link,
		})
	})
	return out, nil
}

func chromeFetch(session *browser.Session) FetchFunc {
	return func(ctx context.Context, pageURL string) (string, error) {
		tab, closeTab := session.NewTab()
		defer closeTab()

		if err := session.Navigate(tab, pageURL, 30*time.Second); err != nil {
			return "", err
		}
		var html string
		if err := browser.RunWithTimeout(tab, 15*time.Second,
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		); err != nil {
			return "", err
		}
		return html, nil
	}
}
