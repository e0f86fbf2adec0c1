package internal

import (
	"fmt"
	"sort"
	"time"
)

// FakeClock is a manual Clock and Scheduler for tests. Time only moves on
// Advance, and due callbacks fire in time order on the caller's goroutine.
type FakeClock struct {
	now   time.Time
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	due       time.Time
	every     time.Duration
	fn        func()
	seq       int
	cancelled bool
}

func (t *fakeTask) Cancel() {
	t.cancelled = true
}

// NewFakeClock creates a fake clock starting at start
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time
func (c *FakeClock) Now() time.Time {
	return c.now
}

// Every schedules fn every d
func (c *FakeClock) Every(d time.Duration, fn func()) Task {
	return c.schedule(d, d, fn)
}

// After schedules fn once after d
func (c *FakeClock) After(d time.Duration, fn func()) Task {
	return c.schedule(d, 0, fn)
}

func (c *FakeClock) schedule(delay, every time.Duration, fn func()) Task {
	c.seq++
	task := &fakeTask{due: c.now.Add(delay), every: every, fn: fn, seq: c.seq}
	c.tasks = append(c.tasks, task)
	return task
}

// Advance moves time forward by d, firing every callback that falls due
func (c *FakeClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	for {
		c.prune()
		if len(c.tasks) == 0 {
			break
		}
		sort.SliceStable(c.tasks, func(i, j int) bool {
			if c.tasks[i].due.Equal(c.tasks[j].due) {
				return c.tasks[i].seq < c.tasks[j].seq
			}
			return c.tasks[i].due.Before(c.tasks[j].due)
		})
		next := c.tasks[0]
		if next.due.After(target) {
			break
		}
		c.now = next.due
		if next.every > 0 {
			next.due = next.due.Add(next.every)
		} else {
			next.cancelled = true
		}
		next.fn()
	}
	c.now = target
}

// Jump moves time forward by d without firing anything, like a process that
// was not running while the wall clock moved on
func (c *FakeClock) Jump(d time.Duration) {
	c.now = c.now.Add(d)
	for _, t := range c.tasks {
		for !t.cancelled && t.every > 0 && !t.due.After(c.now) {
			t.due = t.due.Add(t.every)
		}
	}
}

// Pending returns the number of live scheduled tasks
func (c *FakeClock) Pending() int {
	c.prune()
	return len(c.tasks)
}

func (c *FakeClock) prune() {
	live := c.tasks[:0]
	for _, t := range c.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	c.tasks = live
}

// CreateTestRecord creates a history record with a deterministic ID
func CreateTestRecord(n int, name string, totalSec, overtimeSec int) HistoryRecord {
	return HistoryRecord{
		ID:           fmt.Sprintf("record-%d", n),
		SpeakerName:  name,
		TotalTimeSec: totalSec,
		OvertimeSec:  overtimeSec,
		Timestamp:    fmt.Sprintf("2026-10-19 09:%02d:00", n%60),
	}
}

// CreateTestRecords creates n records named "Speaker 1".."Speaker n"
func CreateTestRecords(n int) []HistoryRecord {
	records := make([]HistoryRecord, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, CreateTestRecord(i, fmt.Sprintf("Speaker %d", i), 60*i, 0))
	}
	return records
}

// CreateTestAgenda creates an agenda of n one-minute speakers
func CreateTestAgenda(n int) []AgendaEntry {
	entries := make([]AgendaEntry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, AgendaEntry{Name: fmt.Sprintf("Speaker %d", i), Minutes: 1})
	}
	return entries
}
