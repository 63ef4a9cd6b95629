// Package testing provides test utilities for the bikeshare project: city
// file fixtures, record builders, and safe goroutine assertions.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// =============================================================================
// Error Channel Pattern
// =============================================================================

// GoroutineTest provides safe testing utilities for goroutines.
//
// Using t.Fatal or t.FailNow in a goroutine causes the test to hang because
// these functions call runtime.Goexit() which only exits the current goroutine,
// not the test goroutine. Functions passed to Go return an error instead.
//
// Example usage:
//
//	func TestConcurrentAggregators(t *testing.T) {
//	    gt := testutil.NewGoroutineTest(t)
//	    defer gt.Wait()
//
//	    gt.Go(func() error {
//	        _, err := stats.Stations(table)
//	        return err
//	    })
//	}
type GoroutineTest struct {
	t      *testing.T
	wg     sync.WaitGroup
	errors chan error
	ctx    context.Context
	cancel context.CancelFunc
}

// NewGoroutineTest creates a new GoroutineTest helper.
func NewGoroutineTest(t *testing.T) *GoroutineTest {
	ctx, cancel := context.WithCancel(context.Background())
	return &GoroutineTest{
		t:      t,
		errors: make(chan error, 100), // buffered to avoid blocking
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go runs a function in a goroutine and collects any errors.
func (gt *GoroutineTest) Go(fn func() error) {
	gt.wg.Add(1)
	go func() {
		defer gt.wg.Done()
		if err := fn(); err != nil {
			select {
			case gt.errors <- err:
			default:
				gt.t.Logf("Error channel full, dropping error: %v", err)
			}
		}
	}()
}

// Wait waits for all goroutines to complete and fails the test if any errors occurred.
func (gt *GoroutineTest) Wait() {
	gt.wg.Wait()
	gt.cancel()
	close(gt.errors)

	var errs []error
	for err := range gt.errors {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		gt.t.Errorf("Goroutine test failed with %d error(s):", len(errs))
		for i, err := range errs {
			gt.t.Errorf("  [%d] %v", i+1, err)
		}
		gt.t.FailNow()
	}
}

// Context returns the context for this test.
func (gt *GoroutineTest) Context() context.Context {
	return gt.ctx
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// AssertEqual returns an error if got != want.
func AssertEqual[T comparable](got, want T, msg string) error {
	if got != want {
		return fmt.Errorf("%s: got %v, want %v", msg, got, want)
	}
	return nil
}
