package resume

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/utils"
)

type fakeParser struct {
	text string
	err  error
}

func (p *fakeParser) Parse(_ []byte) (string, error) { return p.text, p.err }

func newSvc(p Parser, ttl time.Duration) *TextService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewTextService(p, cache.NewMemoryCache(0), ttl, log)
}

func TestText_UploadParsesAndCaches(t *testing.T) {
	svc := newSvc(&fakeParser{text: "parsed resume"}, time.Minute)
	ctx := context.Background()

	got, err := svc.Text(ctx, "1.2.3.4", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "parsed resume" {
		t.Errorf("got %q", got)
	}

	// Second call without a file serves from cache.
	cached, err := svc.Text(ctx, "1.2.3.4", nil)
	if err != nil {
		t.Fatalf("cached Text: %v", err)
	}
	if cached != "parsed resume" {
		t.Errorf("cached = %q", cached)
	}
}

func TestText_NoFileNoCacheIsNotFound(t *testing.T) {
	svc := newSvc(&fakeParser{text: "x"}, time.Minute)

	_, err := svc.Text(context.Background(), "1.2.3.4", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestText_NewUploadOverwrites(t *testing.T) {
	p := &fakeParser{text: "first"}
	svc := newSvc(p, time.Minute)
	ctx := context.Background()

	if _, err := svc.Text(ctx, "k", []byte("a")); err != nil {
		t.Fatal(err)
	}
	p.text = "second"
	if _, err := svc.Text(ctx, "k", []byte("b")); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Text(ctx, "k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("got %q, want overwrite to win", got)
	}
}

func TestText_ExpiresAfterTTL(t *testing.T) {
	svc := newSvc(&fakeParser{text: "short-lived"}, 10*time.Millisecond)
	ctx := context.Background()

	if _, err := svc.Text(ctx, "k", []byte("a")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	_, err := svc.Text(ctx, "k", nil)
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND after TTL", err)
	}
}

func TestText_ParseFailurePropagates(t *testing.T) {
	svc := newSvc(&fakeParser{err: errors.New("bad xref")}, time.Minute)

	_, err := svc.Text(context.Background(), "k", []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
