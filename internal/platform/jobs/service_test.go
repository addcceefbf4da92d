package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestEnqueueRejectsWhenQueueFull(t *testing.T) {
	s := &Service{queue: make(chan job, 1)}
	noop := func(ctx context.Context) (any, error) { return nil, nil }

	if err := s.Enqueue(JobPayoutRun, "tenant-1", noop); err != nil {
		t.Fatalf("first enqueue should be accepted, got %v", err)
	}
	err := s.Enqueue(JobPayoutRun, "tenant-1", noop)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull once the queue is full, got %v", err)
	}
}
