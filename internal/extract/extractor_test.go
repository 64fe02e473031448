package extract

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/providers/llm"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Complete(_ context.Context, _ []llm.Message) (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	return p.responses[i], err
}

func (p *scriptedProvider) Close() error { return nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testExtractor(p llm.Provider) *Extractor {
	e := New(p, quietLogger())
	e.backoff = 0
	return e
}

func TestProfileFromResume_RetriesUntilComplete(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"name": "Ann"}`,
		`no json here at all`,
		`Here it is: {"name": "Ann", "location": "Pune", "jobTitle": "Backend Engineer", "skills": ["go", "sql"], "experience": "senior"}`,
	}}

	got, err := testExtractor(p).ProfileFromResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("ProfileFromResume: %v", err)
	}
	if p.calls != 3 {
		t.Errorf("calls = %d, want 3", p.calls)
	}
	if got.JobTitle != "Backend Engineer" || got.Experience != "senior" || len(got.Skills) != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestProfileFromResume_ExhaustedRetriesSurfaceTypedError(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"name": "Ann"}`}}

	_, err := testExtractor(p).ProfileFromResume(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected failure after retry ceiling")
	}
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("err = %T, want *extract.Error", err)
	}
	if xerr.Reason != ReasonMissingField {
		t.Errorf("reason = %s, want %s", xerr.Reason, ReasonMissingField)
	}
}

func TestSearchFactsFromResume_SingleQuotedListSkill(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{'skills': ['developer'], 'experience': 'Senior level', 'location': 'Mumbai'}`,
	}}

	got, err := testExtractor(p).SearchFactsFromResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("SearchFactsFromResume: %v", err)
	}
	if got.Skill != "developer" {
		t.Errorf("skill = %q, want developer", got.Skill)
	}
	if got.Experience != "senior" {
		t.Errorf("experience = %q, want normalized senior", got.Experience)
	}
	if got.Location != "Mumbai" {
		t.Errorf("location = %q", got.Location)
	}
}

func TestSearchFactsFromResume_UpstreamErrorRetried(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"", `{"skills": "designer", "experience": "beginner", "location": "Delhi"}`},
		errs:      []error{errors.New("503 from upstream"), nil},
	}

	got, err := testExtractor(p).SearchFactsFromResume(context.Background(), "resume")
	if err != nil {
		t.Fatalf("SearchFactsFromResume: %v", err)
	}
	if got.Skill != "designer" {
		t.Errorf("got %+v", got)
	}
	if p.calls != 2 {
		t.Errorf("calls = %d, want 2", p.calls)
	}
}

func TestInsightsFromResume_ParsesWrappedArrayAndCaps(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`Here you go: [
			{"title": "Experience Level", "value": "Senior"},
			{"title": "Top Skill", "value": "Go"},
			{"title": "Industries", "value": "Fintech"},
			{"title": "", "value": "dropped, no title"},
			{"title": "Education", "value": "MSc"},
			{"title": "Languages", "value": "English, Hindi"},
			{"title": "Certifications", "value": "AWS SAA"},
			{"title": "Location", "value": "Pune"}
		]`,
	}}

	got, err := testExtractor(p).InsightsFromResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("InsightsFromResume: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want cap of 6", len(got))
	}
	if got[0].Title != "Experience Level" || got[0].Value != "Senior" {
		t.Errorf("got[0] = %+v", got[0])
	}
	// The untitled entry is skipped, so the seventh well-formed item
	// still makes the cut.
	if got[5].Title != "Certifications" {
		t.Errorf("got[5] = %+v", got[5])
	}
}

func TestInsightsFromResume_InvalidResumeIsTerminal(t *testing.T) {
	p := &scriptedProvider{responses: []string{`"invalid resume"`}}

	_, err := testExtractor(p).InsightsFromResume(context.Background(), "grocery list")
	if err == nil {
		t.Fatal("expected error for non-resume input")
	}
	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatalf("err = %T, want *extract.Error", err)
	}
	if xerr.Reason != ReasonInvalidInput {
		t.Errorf("reason = %s, want %s", xerr.Reason, ReasonInvalidInput)
	}
	if p.calls != 1 {
		t.Errorf("calls = %d, want no retries on the invalid-resume verdict", p.calls)
	}
}

func TestInsightsFromResume_ObjectInsteadOfArrayRetried(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`{"title": "Experience Level", "value": "Senior"}`,
		`[{"title": "Experience Level", "value": "Senior"}]`,
	}}

	got, err := testExtractor(p).InsightsFromResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("InsightsFromResume: %v", err)
	}
	if len(got) != 1 || got[0].Value != "Senior" {
		t.Errorf("got = %+v", got)
	}
	if p.calls != 2 {
		t.Errorf("calls = %d, want 2", p.calls)
	}
}

func TestContentForPlatform(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		`<p>sure</p>{'message': 'Hiring managers, I am seeking a backend role.'}`,
	}}

	body, err := testExtractor(p).ContentForPlatform(context.Background(), "linkedin", "Backend Engineer", "resume")
	if err != nil {
		t.Fatalf("ContentForPlatform: %v", err)
	}
	if body != "Hiring managers, I am seeking a backend role." {
		t.Errorf("body = %q", body)
	}
}
