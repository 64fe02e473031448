package runner

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/utils"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// shRunner builds a runner whose "worker" is a shell one-liner, so the
// protocol can be exercised without a real browser.
func shRunner(t *testing.T, script string) *Runner {
	t.Helper()
	return New("sh", []string{"-c", script, "worker"}, testLogger())
}

func TestRun_SuccessMessage(t *testing.T) {
	r := shRunner(t, `echo '{"status":"success","data":[{"title":"Backend Engineer","company":"Acme"}]}'`)

	postings, err := r.Run(context.Background(), scrape.Query{Skill: "go"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(postings) != 1 || postings[0].Company != "Acme" {
		t.Errorf("postings = %+v", postings)
	}
}

func TestRun_SkipsNoiseBeforeMessage(t *testing.T) {
	r := shRunner(t, `echo 'DevTools listening on ws://127.0.0.1'; echo 'not json {'; echo '{"status":"success","data":[]}'`)

	postings, err := r.Run(context.Background(), scrape.Query{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(postings) != 0 {
		t.Errorf("postings = %+v, want empty", postings)
	}
}

func TestRun_FirstMessageWins(t *testing.T) {
	r := shRunner(t, `echo '{"status":"error","error":"boom"}'; echo '{"status":"success","data":[]}'`)

	_, err := r.Run(context.Background(), scrape.Query{})
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("err = %v, want UNAVAILABLE from the first (error) message", err)
	}
}

func TestRun_NonzeroExitIsFailure(t *testing.T) {
	r := shRunner(t, `echo '{"status":"success","data":[]}'; exit 3`)

	_, err := r.Run(context.Background(), scrape.Query{})
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("err = %v, want UNAVAILABLE on nonzero exit", err)
	}
}

func TestRun_ExitWithoutMessage(t *testing.T) {
	r := shRunner(t, `echo 'nothing structured here'`)

	_, err := r.Run(context.Background(), scrape.Query{})
	if !utils.IsCode(err, utils.CodeInternal) {
		t.Fatalf("err = %v, want INTERNAL when the child reports nothing", err)
	}
}

func TestRun_TimeoutKillsChild(t *testing.T) {
	r := shRunner(t, `sleep 10`).WithTimeout(150 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), scrape.Query{})
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("err = %v, want UNAVAILABLE on timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("child not killed promptly: %v", elapsed)
	}
}

func TestRun_PassesQueryFlags(t *testing.T) {
	// The script echoes its argv back through the error field so the
	// flag wiring is observable from the returned error.
	r := shRunner(t, `echo "{\"status\":\"error\",\"error\":\"$*\"}"`)

	_, err := r.Run(context.Background(), scrape.Query{
		Skill: "go", Location: "Lisbon", Experience: "senior",
	})
	if err == nil {
		t.Fatal("want error carrying the child argv")
	}
	want := "-skill go -location Lisbon -experience senior"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("err = %q, want it to contain %q", err, want)
	}
}
