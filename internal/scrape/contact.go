package scrape

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/scrape/browser"
)

var (
	emailRe = regexp.MustCompile(`[\w.%+-]+@[\w.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d -]{7,}\d`)
)

// ExtractContacts pulls de-duplicated email addresses and phone numbers
// out of page text, in order of first appearance.
func ExtractContacts(text string) (emails, phones []string) {
	seenE := map[string]bool{}
	for _, m := range emailRe.FindAllString(text, -1) {
		if !seenE[m] {
			seenE[m] = true
			emails = append(emails, m)
		}
	}
	seenP := map[string]bool{}
	for _, m := range phoneRe.FindAllString(text, -1) {
		if !seenP[m] {
			seenP[m] = true
			phones = append(phones, m)
		}
	}
	return emails, phones
}

// ContactCrawler finds a company's official site through a web search and
// crawls same-origin pages for contact details. Strictly best effort:
// a crawl that finds nothing returns the "not found" markers and a crawl
// that errors returns an error for the caller to convert into the
// "error retrieving" markers.
type ContactCrawler struct {
	session *browser.Session
	limiter *HostLimiter
	log     *logrus.Logger

	// crawlBudget bounds the whole same-origin exploration per company.
	crawlBudget time.Duration
	pageDelay   time.Duration
}

func NewContactCrawler(session *browser.Session, limiter *HostLimiter, log *logrus.Logger) *ContactCrawler {
	return &ContactCrawler{
		session:     session,
		limiter:     limiter,
		log:         log,
		crawlBudget: 60 * time.Second,
		pageDelay:   time.Second,
	}
}

func (c *ContactCrawler) Lookup(ctx context.Context, company string) (*models.ContactInfo, error) {
	tab, closeTab := c.session.NewTab()
	defer closeTab()

	searchURL := "https://www.google.com/search?q=" + url.QueryEscape(company)
	if err := c.limiter.WaitURL(ctx, searchURL); err != nil {
		return nil, err
	}
	if err := c.session.Navigate(tab, searchURL, 30*time.Second); err != nil {
		return nil, err
	}

	var siteURL string
	if err := browser.RunWithTimeout(tab, 30*time.Second,
		chromedp.WaitVisible("h3", chromedp.ByQuery),
		chromedp.Evaluate(`(() => {
			const h = document.querySelector("h3");
			if (!h) return "";
			const a = h.closest("a");
			return a ? a.href : "";
		})()`, &siteURL),
	); err != nil {
		return nil, err
	}
	if siteURL == "" {
		return &models.ContactInfo{Emails: models.NoEmailFound, Phones: models.NoPhoneFound}, nil
	}

	if err := c.session.Navigate(tab, siteURL, 30*time.Second); err != nil {
		return nil, err
	}

	emails, phones, err := c.explore(ctx, tab, siteURL)
	if err != nil {
		return nil, err
	}

	info := &models.ContactInfo{
		Emails: models.NoEmailFound,
		Phones: models.NoPhoneFound,
	}
	if len(emails) > 0 {
		info.Emails = strings.Join(emails, ", ")
	}
	if len(phones) > 0 {
		info.Phones = strings.Join(phones, ", ")
	}
	return info, nil
}

// explore scans the current page, then walks same-origin links
// breadth-first with a visited set, stopping at the first page that
// yields any contact datum or when the wall-clock budget runs out.
func (c *ContactCrawler) explore(ctx context.Context, tab context.Context, origin string) (emails, phones []string, err error) {
	deadline := time.Now().Add(c.crawlBudget)
	visited := map[string]bool{origin: true}
	queue := []string{""} // empty marker: scan the already-open page first

	for len(queue) > 0 {
		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}

		link := queue[0]
		queue = queue[1:]

		if link != "" {
			if err := c.limiter.WaitURL(ctx, link); err != nil {
				return nil, nil, err
			}
			if err := c.session.Navigate(tab, link, 30*time.Second); err != nil {
				// One unreachable page is not fatal to the crawl.
				c.log.WithError(err).WithField("url", link).Debug("contact crawl page skipped")
				continue
			}
			time.Sleep(c.pageDelay)
		}

		var bodyText string
		if err := browser.RunWithTimeout(tab, 15*time.Second,
			chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &bodyText),
		); err != nil {
			continue
		}

		emails, phones = ExtractContacts(bodyText)
		if len(emails) > 0 || len(phones) > 0 {
			return emails, phones, nil
		}

		var links []string
		if err := browser.RunWithTimeout(tab, 15*time.Second,
			chromedp.Evaluate(`Array.from(document.querySelectorAll("a"))
				.map(a => a.href)
				.filter(h => h && h.startsWith(window.location.origin))`, &links),
		); err != nil {
			continue
		}
		for _, l := range links {
			if !visited[l] {
				visited[l] = true
				queue = append(queue, l)
			}
		}
	}

	return nil, nil, nil
}
