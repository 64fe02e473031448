package google

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/models"
)

type stubCards struct {
	postings []models.Posting
	readErr  map[int]error
	backErr  map[int]error // keyed by the card index just read
	lastRead int
	reads    int
	backs    int
}

func (s *stubCards) Count() (int, error) { return len(s.postings), nil }

func (s *stubCards) Read(i int) (models.Posting, error) {
	s.reads++
	s.lastRead = i
	if err := s.readErr[i]; err != nil {
		return models.Posting{}, err
	}
	return s.postings[i], nil
}

func (s *stubCards) Back() error {
	s.backs++
	return s.backErr[s.lastRead]
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCollectPostings_WalksAllCards(t *testing.T) {
	cards := &stubCards{postings: []models.Posting{
		{Title: "A", Company: "Acme"},
		{Title: "B", Company: "Globex"},
		{Title: "C", Company: "Initech"},
	}}

	got := collectPostings(context.Background(), cards, maxCards, testLogger())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if cards.backs != 3 {
		t.Errorf("backs = %d, want one back navigation per card", cards.backs)
	}
}

func TestCollectPostings_BackFailureKeepsCardInHand(t *testing.T) {
	cards := &stubCards{
		postings: []models.Posting{
			{Title: "A", Company: "Acme"},
			{Title: "B", Company: "Globex"},
			{Title: "C", Company: "Initech"},
		},
		backErr: map[int]error{1: fmt.Errorf("list gone")},
	}

	got := collectPostings(context.Background(), cards, maxCards, testLogger())

	// The card read before the failed back navigation survives; only
	// later cards are lost.
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[1].Company != "Globex" {
		t.Errorf("got[1] = %+v, want the card read just before the failure", got[1])
	}
	if cards.reads != 2 {
		t.Errorf("reads = %d, want the walk to stop after the failed back", cards.reads)
	}
}

func TestCollectPostings_ReadErrorSkipsOnlyThatCard(t *testing.T) {
	cards := &stubCards{
		postings: []models.Posting{
			{Title: "A", Company: "Acme"},
			{Title: "B", Company: "Globex"},
			{Title: "C", Company: "Initech"},
		},
		readErr: map[int]error{1: fmt.Errorf("detail timeout")},
	}

	got := collectPostings(context.Background(), cards, maxCards, testLogger())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Company != "Acme" || got[1].Company != "Initech" {
		t.Errorf("got = %+v", got)
	}
}

func TestCollectPostings_DropsIncompleteCards(t *testing.T) {
	cards := &stubCards{postings: []models.Posting{
		{Title: "A", Company: "Acme"},
		{Title: "No Company"},
		{Company: "No Title"},
	}}

	got := collectPostings(context.Background(), cards, maxCards, testLogger())
	if len(got) != 1 || got[0].Company != "Acme" {
		t.Errorf("got = %+v, want only the complete card", got)
	}
}

func TestCollectPostings_HonorsCap(t *testing.T) {
	var postings []models.Posting
	for i := 0; i < 5; i++ {
		postings = append(postings, models.Posting{
			Title: "T", Company: fmt.Sprintf("c%d", i),
		})
	}
	cards := &stubCards{postings: postings}

	got := collectPostings(context.Background(), cards, 3, testLogger())
	if len(got) != 3 {
		t.Errorf("len = %d, want the cap", len(got))
	}
}
