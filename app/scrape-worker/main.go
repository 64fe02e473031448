// scrape-worker is the child process the API spawns for one job search.
// It drives headless Chrome, prints exactly one JSON message to stdout,
// and exits nonzero on failure. Keeping Chrome in a short-lived child
// means a wedged browser can never take the server down.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/runner"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/scrape/bing"
	"github.com/resumatch/resumatch/internal/scrape/browser"
	"github.com/resumatch/resumatch/internal/scrape/google"
	"github.com/resumatch/resumatch/internal/scrape/indeed"
)

func main() {
	_ = godotenv.Load()

	skill := flag.String("skill", "", "job skill or category to search for")
	location := flag.String("location", "", "location to search in")
	experience := flag.String("experience", "", "experience level")
	providerName := flag.String("provider", envOr("SCRAPE_PROVIDER", "google"), "posting source: google, bing or indeed")
	noContacts := flag.Bool("no-contacts", false, "skip company contact enrichment")
	flag.Parse()

	lg := logger.New()
	lg.SetOutput(os.Stderr) // stdout carries only the result message

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	postings, err := run(ctx, lg, *providerName, *noContacts, scrape.Query{
		Skill:      *skill,
		Location:   *location,
		Experience: *experience,
	})
	if err != nil {
		emit(runner.Message{Status: runner.StatusError, Error: err.Error()})
		os.Exit(1)
	}
	emit(runner.Message{Status: runner.StatusSuccess, Postings: postings})
}

func run(ctx context.Context, lg *logrus.Logger, providerName string, noContacts bool, q scrape.Query) ([]models.Posting, error) {
	session := browser.NewSession(ctx, lg)
	defer session.Close()

	limiter := scrape.NewHostLimiter(1, 2)

	var provider scrape.Provider
	switch providerName {
	case "bing":
		provider = bing.New(session, limiter, lg)
	case "indeed":
		provider = indeed.New(session, limiter, lg)
	default:
		provider = google.New(session, limiter, lg)
	}

	var enricher scrape.Enricher
	if !noContacts {
		enricher = scrape.NewContactCrawler(session, limiter, lg)
	}

	return scrape.New(provider, enricher, lg).Run(ctx, q)
}

func emit(msg runner.Message) {
	_ = json.NewEncoder(os.Stdout).Encode(msg)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
