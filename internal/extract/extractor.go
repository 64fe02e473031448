// Package extract turns free-text AI completions into typed records. The
// completion endpoint returns prose-wrapped pseudo-JSON often enough that
// every extraction is coerce-then-validate, wrapped in a retry policy.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/providers/llm"
)

const (
	DefaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond

	maxInsights = 6
)

// Profile is the structured result of a full resume extraction.
type Profile struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	JobTitle   string   `json:"jobTitle"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

// Insight is one titled observation about a resume, e.g.
// {"Experience Level", "Senior"} or {"Industries", "Fintech, logistics"}.
type Insight struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// SearchFacts is the minimal tuple the job scraper consumes.
type SearchFacts struct {
	Skill      string `json:"skills"`
	Experience string `json:"experience"`
	Location   string `json:"location"`
}

type Extractor struct {
	provider llm.Provider
	log      *logrus.Logger
	attempts int
	backoff  time.Duration
}

func New(provider llm.Provider, log *logrus.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		log:      log,
		attempts: DefaultAttempts,
		backoff:  defaultBackoff,
	}
}

func (e *Extractor) complete(ctx context.Context, system, user string) (map[string]any, error) {
	text, err := e.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return nil, &Error{Reason: ReasonUpstream, Err: err}
	}

	obj, cerr := CoerceObject(text)
	if cerr != nil {
		return nil, cerr
	}
	return obj, nil
}

// ProfileFromResume extracts name, location, job title, skills and
// experience from resume text. A completion missing any required field is
// retried against the same ceiling rather than returned partially.
func (e *Extractor) ProfileFromResume(ctx context.Context, resumeText string) (*Profile, error) {
	return WithRetry(ctx, e.attempts, e.backoff, func() (*Profile, error) {
		obj, err := e.complete(ctx, profilePrompt, resumeText)
		if err != nil {
			e.log.WithError(err).Debug("profile extraction attempt failed")
			return nil, err
		}
		if ferr := RequireFields(obj, "name", "location", "jobTitle", "skills", "experience"); ferr != nil {
			e.log.WithField("field", ferr.Field).Debug("profile extraction incomplete, retrying")
			return nil, ferr
		}

		p := &Profile{
			Name:       asString(obj["name"]),
			Location:   asString(obj["location"]),
			JobTitle:   asString(obj["jobTitle"]),
			Skills:     asStrings(obj["skills"]),
			Experience: normalizeExperience(asString(obj["experience"])),
		}
		return p, nil
	})
}

// SearchFactsFromResume extracts the (skill, experience, location) tuple
// that parameterizes a job search.
func (e *Extractor) SearchFactsFromResume(ctx context.Context, resumeText string) (*SearchFacts, error) {
	return WithRetry(ctx, e.attempts, e.backoff, func() (*SearchFacts, error) {
		obj, err := e.complete(ctx, searchFactsPrompt, resumeText)
		if err != nil {
			e.log.WithError(err).Debug("search-facts extraction attempt failed")
			return nil, err
		}
		if ferr := RequireFields(obj, "skills", "experience", "location"); ferr != nil {
			return nil, ferr
		}

		f := &SearchFacts{
			Skill:      firstString(obj["skills"]),
			Experience: normalizeExperience(asString(obj["experience"])),
			Location:   asString(obj["location"]),
		}
		return f, nil
	})
}

// InsightsFromResume produces up to six titled observations about the
// resume. Unlike the object extractions the model answers with a JSON
// array here, and a sentinel text instead of JSON when the input is not
// a resume; the sentinel is terminal, not retried.
func (e *Extractor) InsightsFromResume(ctx context.Context, resumeText string) ([]Insight, error) {
	return WithRetry(ctx, e.attempts, e.backoff, func() ([]Insight, error) {
		text, err := e.provider.Complete(ctx, []llm.Message{
			{Role: "system", Content: insightsPrompt},
			{Role: "user", Content: resumeText},
		})
		if err != nil {
			return nil, &Error{Reason: ReasonUpstream, Err: err}
		}
		if strings.Contains(strings.ToLower(text), "invalid resume") {
			return nil, &Error{Reason: ReasonInvalidInput}
		}

		v, cerr := CoerceJSON(text)
		if cerr != nil {
			e.log.WithError(cerr).Debug("insights attempt failed")
			return nil, cerr
		}
		items, ok := v.([]any)
		if !ok {
			return nil, &Error{Reason: ReasonBadJSON}
		}

		out := make([]Insight, 0, maxInsights)
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			in := Insight{Title: asString(obj["title"]), Value: asString(obj["value"])}
			if in.Title == "" || in.Value == "" {
				continue
			}
			out = append(out, in)
			if len(out) == maxInsights {
				break
			}
		}
		if len(out) == 0 {
			return nil, &Error{Reason: ReasonMissingField, Field: "insights"}
		}
		return out, nil
	})
}

// ContentForPlatform writes a job-application post body for the platform.
func (e *Extractor) ContentForPlatform(ctx context.Context, platform models.ContentPlatform, jobTitle, resumeText string) (string, error) {
	system := fmt.Sprintf(contentPrompt, string(platform), jobTitle)
	user := fmt.Sprintf("%s\n\nPlatform: %s\nJob Title: %s", resumeText, platform, jobTitle)

	return WithRetry(ctx, e.attempts, e.backoff, func() (string, error) {
		obj, err := e.complete(ctx, system, user)
		if err != nil {
			return "", err
		}
		if ferr := RequireFields(obj, "message"); ferr != nil {
			return "", ferr
		}
		return asString(obj["message"]), nil
	})
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return nil
}

// firstString handles the model returning either a bare string or a list
// where a single value was asked for.
func firstString(v any) string {
	if s := asString(v); s != "" {
		return s
	}
	if all := asStrings(v); len(all) > 0 {
		return all[0]
	}
	return ""
}

func normalizeExperience(v string) string {
	lv := strings.ToLower(strings.TrimSpace(v))
	if models.ValidExperience(lv) {
		return lv
	}
	// Models sometimes answer "senior level" or similar.
	for _, level := range []string{"beginner", "intermediate", "senior"} {
		if strings.Contains(lv, level) {
			return level
		}
	}
	return lv
}
