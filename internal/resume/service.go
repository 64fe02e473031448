// Package resume owns PDF-to-text parsing and the short-lived text cache
// that lets follow-up requests skip re-parsing an already uploaded resume.
package resume

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/utils"
)

// DefaultTextTTL is how long parsed resume text stays retrievable without
// a fresh upload.
const DefaultTextTTL = time.Hour

// TextService caches parsed resume text per client key (user id when
// authenticated, client IP otherwise). One live entry per key: a new
// upload overwrites the prior text and resets the TTL. The cache is a
// latency optimization only; the source PDF can always be re-parsed.
type TextService struct {
	parser Parser
	cache  cache.Cache
	ttl    time.Duration
	log    *logrus.Logger
}

func NewTextService(parser Parser, c cache.Cache, ttl time.Duration, log *logrus.Logger) *TextService {
	if ttl <= 0 {
		ttl = DefaultTextTTL
	}
	return &TextService{parser: parser, cache: c, ttl: ttl, log: log}
}

func textKey(clientKey string) string { return "resume-text:" + clientKey }

// Text resolves resume text for the client: a provided file is parsed and
// cached (overwriting any prior entry); with no file the cache is
// consulted; no file and no cached entry is a client error.
func (s *TextService) Text(ctx context.Context, clientKey string, fileData []byte) (string, error) {
	const op = "resume.Text"

	if len(fileData) > 0 {
		text, err := s.parser.Parse(fileData)
		if err != nil {
			return "", err
		}
		if err := s.cache.SetJSON(ctx, textKey(clientKey), text, s.ttl); err != nil {
			// Cache failure is not fatal; the text is already in hand.
			s.log.WithError(err).Warn("failed to cache resume text")
		}
		return text, nil
	}

	var cached string
	hit, err := s.cache.GetJSON(ctx, textKey(clientKey), &cached)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "resume text cache read failed", err)
	}
	if !hit {
		return "", utils.E(utils.CodeNotFound, op, "no resume data: upload a PDF first", nil)
	}
	return cached, nil
}

// Invalidate drops the cached text for the client.
func (s *TextService) Invalidate(ctx context.Context, clientKey string) error {
	return s.cache.Del(ctx, textKey(clientKey))
}
