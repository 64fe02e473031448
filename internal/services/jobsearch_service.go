package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/models"
	mongorepo "github.com/resumatch/resumatch/internal/repositories/mongo"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/utils"
)

// SearchRunner is the scrape execution seam: the in-process scraper and
// the child-process runner both satisfy it, and tests stub it.
type SearchRunner interface {
	Run(ctx context.Context, q scrape.Query) ([]models.Posting, error)
}

type JobSearchService interface {
	Search(ctx context.Context, clientKey string, pref models.LocationPreference, fileData []byte) ([]models.Posting, error)
	History(ctx context.Context, clientKey string, limit int64) ([]models.ScrapeRun, error)
}

type jobSearchService struct {
	texts     *resume.TextService
	extractor *extract.Extractor
	runner    SearchRunner
	runs      mongorepo.ScrapeRunRepository // nil disables history
	provider  string
	log       *logrus.Logger
}

func NewJobSearchService(texts *resume.TextService, extractor *extract.Extractor, runner SearchRunner, runs mongorepo.ScrapeRunRepository, provider string, log *logrus.Logger) JobSearchService {
	return &jobSearchService{
		texts:     texts,
		extractor: extractor,
		runner:    runner,
		runs:      runs,
		provider:  provider,
		log:       log,
	}
}

// Search resolves resume text for the client, extracts the search tuple,
// applies the location preference, and runs the scrape. A "remote"
// preference overrides the location inferred from the resume; any other
// preference keeps the inferred location, since on-site and hybrid
// searches are anchored to where the candidate lives.
func (s *jobSearchService) Search(ctx context.Context, clientKey string, pref models.LocationPreference, fileData []byte) ([]models.Posting, error) {
	const op = "JobSearchService.Search"

	text, err := s.texts.Text(ctx, clientKey, fileData)
	if err != nil {
		return nil, err
	}

	facts, err := s.extractor.SearchFactsFromResume(ctx, text)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to extract search parameters", err)
	}

	q := scrape.Query{
		Skill:      facts.Skill,
		Location:   facts.Location,
		Experience: facts.Experience,
	}
	if pref == models.PrefRemote {
		q.Location = "remote"
	}

	started := time.Now().UTC()
	postings, err := s.runner.Run(ctx, q)
	s.recordRun(clientKey, q, postings, err, started)
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (s *jobSearchService) History(ctx context.Context, clientKey string, limit int64) ([]models.ScrapeRun, error) {
	const op = "JobSearchService.History"

	if s.runs == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "search history is not enabled", nil)
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	runs, err := s.runs.ListByUser(ctx, clientKey, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load search history", err)
	}
	return runs, nil
}

// recordRun persists the run outcome, best effort. History writes use
// their own short deadline so a slow store cannot delay the response.
func (s *jobSearchService) recordRun(clientKey string, q scrape.Query, postings []models.Posting, runErr error, started time.Time) {
	if s.runs == nil {
		return
	}

	run := &models.ScrapeRun{
		UserKey:    clientKey,
		Provider:   s.provider,
		Skill:      q.Skill,
		Location:   q.Location,
		Experience: q.Experience,
		Postings:   postings,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
	}
	if runErr != nil {
		run.Err = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runs.Create(ctx, run); err != nil {
		s.log.WithError(err).Warn("failed to record scrape run")
	}
}
