package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	const n = 50
	var seen [n]int32
	err := Run(context.Background(), n, 4, func(_ context.Context, i int) error {
		atomic.AddInt32(&seen[i], 1)
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	for i, v := range seen {
		test.That(t, v, test.ShouldEqual, int32(1))
		_ = i
	}
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), 10, 2, func(_ context.Context, i int) error {
		if i == 5 {
			return boom
		}
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunRecoversPanic(t *testing.T) {
	err := Run(context.Background(), 4, 2, func(_ context.Context, i int) error {
		if i == 2 {
			panic("kaboom")
		}
		return nil
	})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRunZeroItemsIsNoop(t *testing.T) {
	err := Run(context.Background(), 0, 2, func(_ context.Context, i int) error {
		t.Fatal("should not be called")
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
}
