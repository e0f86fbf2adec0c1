package internal

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// TickInterval is how often a running timer recomputes its display
	TickInterval = time.Second
	// AdvanceDelay is the pause between a confirmed stop and the next agenda speaker
	AdvanceDelay = time.Second
)

// Clock supplies wall-clock time
type Clock interface {
	Now() time.Time
}

// Task is a handle to a scheduled callback
type Task interface {
	Cancel()
}

// Scheduler runs callbacks later on the owner's goroutine.
// Callbacks of a cancelled task never run, even if already queued.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
	After(d time.Duration, fn func()) Task
}

// SystemClock reads time.Now
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// PostFunc hands a callback to the single goroutine that owns the timer
type PostFunc func(fn func())

// LoopScheduler drives real tickers and delivers every firing through post,
// so callbacks run on the owner's event loop and never concurrently with it.
type LoopScheduler struct {
	post PostFunc
}

// NewLoopScheduler creates a scheduler that posts callbacks with post
func NewLoopScheduler(post PostFunc) *LoopScheduler {
	return &LoopScheduler{post: post}
}

type loopTask struct {
	cancelled atomic.Bool
	stop      chan struct{}
	once      sync.Once
}

func newLoopTask() *loopTask {
	return &loopTask{stop: make(chan struct{})}
}

func (t *loopTask) Cancel() {
	t.once.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
	})
}

func (s *LoopScheduler) deliver(task *loopTask, fn func()) {
	s.post(func() {
		if task.cancelled.Load() {
			return
		}
		fn()
	})
}

// Every fires fn every d until the task is cancelled
func (s *LoopScheduler) Every(d time.Duration, fn func()) Task {
	task := newLoopTask()
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				s.deliver(task, fn)
			}
		}
	}()
	return task
}

// After fires fn once after d unless the task is cancelled first
func (s *LoopScheduler) After(d time.Duration, fn func()) Task {
	task := newLoopTask()
	timer := time.NewTimer(d)
	go func() {
		select {
		case <-task.stop:
			timer.Stop()
		case <-timer.C:
			s.deliver(task, fn)
		}
	}()
	return task
}

func unixMilli(c Clock) int64 {
	return c.Now().UnixMilli()
}
