// Package runner isolates a scrape in a child process. Headless Chrome
// can leak memory or wedge; running it out of process means a bad run
// costs one child, not the API server. The child reports one JSON
// message on stdout and its exit code is the source of truth when no
// message arrives.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/scrape"
	"github.com/resumatch/resumatch/internal/utils"
)

// DefaultTimeout bounds one child run wall-clock. The in-child crawl
// budget is shorter, so a healthy child always finishes first.
const DefaultTimeout = 4 * time.Minute

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Message is the child's single stdout report.
type Message struct {
	Status   string           `json:"status"`
	Postings []models.Posting `json:"data,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type Runner struct {
	bin     string
	args    []string
	timeout time.Duration
	log     *logrus.Logger
}

// New builds a runner around the worker binary at bin. Extra args are
// prepended before the per-run query flags.
func New(bin string, args []string, log *logrus.Logger) *Runner {
	return &Runner{bin: bin, args: args, timeout: DefaultTimeout, log: log}
}

func (r *Runner) WithTimeout(d time.Duration) *Runner {
	r.timeout = d
	return r
}

// Run spawns the worker for one query and returns its postings. The
// first well-formed message on stdout wins; any later output is
// ignored. A child that exits nonzero, times out, or exits without a
// message is a failure.
func (r *Runner) Run(ctx context.Context, q scrape.Query) ([]models.Posting, error) {
	const op = "runner.Run"

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, r.args...),
		"-skill", q.Skill,
		"-location", q.Location,
		"-experience", q.Experience,
	)
	cmd := exec.CommandContext(ctx, r.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	r.log.WithFields(logrus.Fields{
		"bin":      r.bin,
		"duration": time.Since(start).String(),
		"exit_err": fmt.Sprint(runErr),
	}).Info("scrape worker finished")

	msg, ok := firstMessage(&stdout)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, utils.E(utils.CodeUnavailable, op, "scrape worker timed out", ctx.Err())
	}
	if runErr != nil {
		detail := stderr.String()
		if msg != nil && msg.Error != "" {
			detail = msg.Error
		}
		return nil, utils.E(utils.CodeUnavailable, op, "scrape worker failed",
			fmt.Errorf("%s: %w", detail, runErr))
	}
	if !ok {
		return nil, utils.E(utils.CodeInternal, op, "scrape worker exited without a result", nil)
	}
	if msg.Status != StatusSuccess {
		return nil, utils.E(utils.CodeUnavailable, op, "scrape worker reported failure",
			fmt.Errorf("%s", msg.Error))
	}
	return msg.Postings, nil
}

// firstMessage scans stdout line by line for the first parseable
// message. Chrome and its libraries write noise to stdout too, so
// unparseable lines are skipped, not errors.
func firstMessage(buf *bytes.Buffer) (*Message, bool) {
	sc := bufio.NewScanner(buf)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}
		if msg.Status == "" {
			continue
		}
		return &msg, true
	}
	return nil, false
}
