package services

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/providers/llm"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/utils"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixedProvider struct {
	response string
}

func (p *fixedProvider) Complete(ctx context.Context, msgs []llm.Message) (string, error) {
	return p.response, nil
}
func (p *fixedProvider) Close() error { return nil }

type stubParser struct{ text string }

func (p *stubParser) Parse(data []byte) (string, error) { return p.text, nil }

type captureRunner struct {
	got      scrape.Query
	postings []models.Posting
	err      error
}

func (r *captureRunner) Run(ctx context.Context, q scrape.Query) ([]models.Posting, error) {
	r.got = q
	return r.postings, r.err
}

func newSearchFixture(t *testing.T, factsJSON string) (*captureRunner, JobSearchService) {
	t.Helper()

	mem := cache.NewMemoryCache(0)
	t.Cleanup(mem.Stop)

	texts := resume.NewTextService(&stubParser{text: "resume text"}, mem, 0, testLogger())
	extractor := extract.New(&fixedProvider{response: factsJSON}, testLogger())
	runner := &captureRunner{postings: []models.Posting{{Title: "Backend Engineer", Company: "Acme"}}}

	svc := NewJobSearchService(texts, extractor, runner, nil, "google", testLogger())
	return runner, svc
}

const factsJSON = `{"skills": "software development", "experience": "senior", "location": "Lisbon"}`

func TestSearch_RemotePreferenceOverridesResumeLocation(t *testing.T) {
	runner, svc := newSearchFixture(t, factsJSON)

	postings, err := svc.Search(context.Background(), "user-1", models.PrefRemote, []byte("%PDF"))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if runner.got.Location != "remote" {
		t.Errorf("location = %q, want remote preference to override the resume", runner.got.Location)
	}
	if runner.got.Skill != "software development" || runner.got.Experience != "senior" {
		t.Errorf("query = %+v", runner.got)
	}
	if len(postings) != 1 {
		t.Errorf("postings = %+v", postings)
	}
}

func TestSearch_OnLocationKeepsResumeLocation(t *testing.T) {
	runner, svc := newSearchFixture(t, factsJSON)

	if _, err := svc.Search(context.Background(), "user-1", models.PrefOnLocation, []byte("%PDF")); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if runner.got.Location != "Lisbon" {
		t.Errorf("location = %q, want the resume-inferred location", runner.got.Location)
	}
}

func TestSearch_CachedTextServesFollowUpWithoutFile(t *testing.T) {
	runner, svc := newSearchFixture(t, factsJSON)

	if _, err := svc.Search(context.Background(), "user-1", models.PrefHybrid, []byte("%PDF")); err != nil {
		t.Fatalf("first Search: %v", err)
	}
	if _, err := svc.Search(context.Background(), "user-1", models.PrefHybrid, nil); err != nil {
		t.Fatalf("follow-up Search without file: %v", err)
	}
	if runner.got.Location != "Lisbon" {
		t.Errorf("location = %q", runner.got.Location)
	}
}

func TestSearch_NoFileNoCacheIsNotFound(t *testing.T) {
	_, svc := newSearchFixture(t, factsJSON)

	_, err := svc.Search(context.Background(), "user-1", models.PrefRemote, nil)
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND without an upload", err)
	}
}

func TestSearch_RunnerFailurePropagates(t *testing.T) {
	runner, svc := newSearchFixture(t, factsJSON)
	runner.err = utils.E(utils.CodeUnavailable, "scrape.Run", "job search failed", nil)

	_, err := svc.Search(context.Background(), "user-1", models.PrefRemote, []byte("%PDF"))
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Errorf("err = %v, want UNAVAILABLE", err)
	}
}
