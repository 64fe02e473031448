// Package scrape produces job postings for a (skill, location, experience)
// query by driving site adapters against search surfaces, then
// deduplicating and optionally enriching results with company contact
// details. Everything here is best effort: page structure belongs to the
// target sites and can drift at any time.
package scrape

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/utils"
)

// MaxPostings caps the postings returned by one run.
const MaxPostings = 10

// Query parameterizes one scrape run.
type Query struct {
	Skill      string `json:"skill"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
}

// Provider is a site adapter. All selectors and URL shapes for a target
// site live inside its adapter, so markup drift is a one-file fix.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]models.Posting, error)
}

// Enricher looks up contact details for a company, best effort.
type Enricher interface {
	Lookup(ctx context.Context, company string) (*models.ContactInfo, error)
}

type Scraper struct {
	provider Provider
	enricher Enricher // nil disables contact enrichment
	log      *logrus.Logger

	enrichParallelism int
}

func New(provider Provider, enricher Enricher, log *logrus.Logger) *Scraper {
	return &Scraper{
		provider:          provider,
		enricher:          enricher,
		log:               log,
		enrichParallelism: 2,
	}
}

// Run performs one scrape: search, dedupe by company (last one wins),
// cap, then enrich contacts if configured. A provider failure is terminal
// for the run; an enrichment failure only marks that posting.
func (s *Scraper) Run(ctx context.Context, q Query) ([]models.Posting, error) {
	const op = "scrape.Run"

	s.log.WithFields(logrus.Fields{
		"provider":   s.provider.Name(),
		"skill":      q.Skill,
		"location":   q.Location,
		"experience": q.Experience,
	}).Info("scrape run starting")

	raw, err := s.provider.Search(ctx, q)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "job search failed", err)
	}

	postings := Dedupe(raw, MaxPostings)
	s.log.WithFields(logrus.Fields{
		"raw":      len(raw),
		"returned": len(postings),
	}).Info("scrape run finished")

	if s.enricher == nil {
		return postings, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.enrichParallelism)
	for i := range postings {
		i := i
		g.Go(func() error {
			info, err := s.enricher.Lookup(gctx, postings[i].Company)
			if err != nil {
				s.log.WithError(err).WithField("company", postings[i].Company).
					Warn("contact enrichment failed")
				postings[i].Contact = &models.ContactInfo{
					Emails: models.EmailScrapeErr,
					Phones: models.PhoneScrapeErr,
				}
				return nil // per-item failure never aborts the batch
			}
			postings[i].Contact = info
			return nil
		})
	}
	_ = g.Wait()

	return postings, nil
}
