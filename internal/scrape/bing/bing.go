// Package bing adapts Bing's jobs vertical as a posting source. Unlike
// the Google panel, Bing renders cards with the detail inline, so a
// single evaluate over the list is enough.
package bing

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/scrape/browser"
)

const (
	selJobCard = ".jb_jlc"
	selTitle   = ".jb_title"
	selCompany = ".jb_txt_cmp"
	selLoc     = ".jb_txt_loc"
)

type Provider struct {
	session *browser.Session
	limiter *scrape.HostLimiter
	log     *logrus.Logger
}

func New(session *browser.Session, limiter *scrape.HostLimiter, log *logrus.Logger) *Provider {
	return &Provider{session: session, limiter: limiter, log: log}
}

func (p *Provider) Name() string { return "bing" }

func (p *Provider) Search(ctx context.Context, q scrape.Query) ([]models.Posting, error) {
	tab, closeTab := p.session.NewTab()
	defer closeTab()

	query := fmt.Sprintf("%s %s jobs in %s", q.Experience, q.Skill, q.Location)
	searchURL := "https://www.bing.com/jobs?q=" + url.QueryEscape(query)

	if err := p.limiter.WaitURL(ctx, searchURL); err != nil {
		return nil, err
	}
	if err := p.session.Navigate(tab, searchURL, 30*time.Second); err != nil {
		return nil, fmt.Errorf("bing: open search: %w", err)
	}

	var cards []struct {
		Title    string `json:"title"`
		Company  string `json:"company"`
		Location string `json:"location"`
		Link     string `json:"link"`
	}
	err := browser.RunWithTimeout(tab, 30*time.Second,
		chromedp.WaitVisible(selJobCard, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(card => {
			const pick = sel => {
				const el = card.querySelector(sel);
				return el ? el.textContent.trim() : "";
			};
			const a = card.querySelector("a");
			return {
				title:    pick(%q),
				company:  pick(%q),
				location: pick(%q),
				link:     a ? a.href : "",
			};
		})`, selJobCard, selTitle, selCompany, selLoc), &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("bing: read cards: %w", err)
	}

	postings := make([]models.Posting, 0, len(cards))
	for _, c := range cards {
		if c.Title == "" || c.Company == "" {
			continue
		}
		postings = append(postings, models.Posting{
			Title:    c.Title,
			Company:  c.Company,
			Location: c.Location,
			Link:     c.Link,
		})
	}
	return postings, nil
}
