package dataflow_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/locvowork/employee_details/pkg/dataflow"
)

type row struct {
	ID   string
	Name string
}

func TestPipelineWithRetry(t *testing.T) {
	ctx := context.Background()

	source := dataflow.From(ctx, "1,Alice", "2,Bob", "retry,Charlie", "broken")

	var parseErrors int32
	parsed := dataflow.Map(ctx, source, func(s string) (row, error) {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return row{}, fmt.Errorf("invalid format: %q", s)
		}
		return row{ID: parts[0], Name: parts[1]}, nil
	}, dataflow.WithWorkers(2), dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&parseErrors, 1)
		return true
	}))

	var attempts int32
	saved := dataflow.Map(ctx, parsed, func(r row) (row, error) {
		if r.ID == "retry" && atomic.AddInt32(&attempts, 1) < 3 {
			return row{}, fmt.Errorf("transient error")
		}
		return r, nil
	}, dataflow.WithRetry(3, dataflow.ConstantBackoff(time.Millisecond)))

	results, err := dataflow.Collect(ctx, saved)
	if err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
	if parseErrors != 1 {
		t.Errorf("Expected 1 parse error, got %d", parseErrors)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts for the retried item, got %d", attempts)
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()

	evens := dataflow.Filter(ctx, dataflow.From(ctx, 1, 2, 3, 4, 5, 6), func(n int) bool {
		return n%2 == 0
	})
	got, err := dataflow.Collect(ctx, evens)
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(got) != "[2 4 6]" {
		t.Errorf("Expected [2 4 6], got %v", got)
	}
}

func TestFanIn(t *testing.T) {
	ctx := context.Background()

	merged := dataflow.FanIn(ctx, dataflow.From(ctx, 1, 2), dataflow.From(ctx, 3), dataflow.From[int](ctx))

	got, err := dataflow.Collect(ctx, merged)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got)
	if fmt.Sprint(got) != "[1 2 3]" {
		t.Errorf("Expected [1 2 3], got %v", got)
	}
}

func TestForEachReturnsUnhandledError(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	var calls int32
	err := dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2, 3), func(n int) error {
		atomic.AddInt32(&calls, 1)
		if n == 2 {
			return errBoom
		}
		return nil
	}, dataflow.WithWorkers(3), dataflow.WithRetry(2, nil))

	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected boom error, got %v", err)
	}
	// 1 and 3 once, 2 three times
	if calls != 5 {
		t.Errorf("Expected 5 calls, got %d", calls)
	}

	var handled int32
	err = dataflow.ForEach(ctx, dataflow.From(ctx, 1, 2), func(int) error {
		return errBoom
	}, dataflow.WithErrorHandler(func(error) bool {
		atomic.AddInt32(&handled, 1)
		return true
	}))
	if err != nil {
		t.Fatalf("Expected handled errors to be swallowed, got %v", err)
	}
	if handled != 2 {
		t.Errorf("Expected 2 handled errors, got %d", handled)
	}
}

func TestForEachStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	input := make(chan int)

	go func() {
		input <- 1
		cancel()
	}()

	err := dataflow.ForEach(ctx, dataflow.New[int](input), func(int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
