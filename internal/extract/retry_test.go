package extract

import (
	"context"
	"errors"
	"testing"
)

func TestWithRetry_FirstSuccessWins(t *testing.T) {
	calls := 0
	v, err := WithRetry(context.Background(), 3, 0, func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 || calls != 1 {
		t.Errorf("v=%d calls=%d, want 42 and 1", v, calls)
	}
}

func TestWithRetry_CompleteRecordOnThirdAttempt(t *testing.T) {
	type record struct{ Name, Location, JobTitle string }

	calls := 0
	fetch := func() (record, error) {
		calls++
		if calls < 3 {
			partial := map[string]any{"name": "Ann"}
			if ferr := RequireFields(partial, "name", "location", "jobTitle"); ferr != nil {
				return record{}, ferr
			}
		}
		return record{Name: "Ann", Location: "Pune", JobTitle: "Engineer"}, nil
	}

	got, err := WithRetry(context.Background(), 3, 0, fetch)
	if err != nil {
		t.Fatalf("maxAttempts=3 should reach the complete record: %v", err)
	}
	if got.Location != "Pune" || got.JobTitle != "Engineer" {
		t.Errorf("got %+v", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_CeilingRaisesLastError(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), 2, 0, func() (struct{}, error) {
		calls++
		if calls < 3 {
			return struct{}{}, &Error{Reason: ReasonMissingField, Field: "location"}
		}
		return struct{}{}, nil
	})
	if err == nil {
		t.Fatal("maxAttempts=2 must surface the last error")
	}
	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Field != "location" {
		t.Errorf("err = %v, want missing-field location", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetry_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := WithRetry(ctx, 5, 0, func() (struct{}, error) {
		calls++
		cancel()
		return struct{}{}, errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after cancellation", calls)
	}
}
