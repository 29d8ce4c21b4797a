package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRegister_InvalidSpec(t *testing.T) {
	s := New(context.Background(), func(context.Context) {})
	if err := s.Register("not a cron spec"); err == nil {
		t.Error("expected an error for a malformed cron spec")
	}
}

func TestStop_WaitsForRunningJob(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool

	s := New(context.Background(), func(context.Context) {
		once.Do(func() { close(started) })
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
	})
	if err := s.Register("* * * * * *"); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job never started")
	}

	s.Stop()
	if !finished.Load() {
		t.Error("Stop returned before the running job finished")
	}
}
