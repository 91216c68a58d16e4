// Package scheduler runs deferred tasks at their scheduled time.
// It replaces ad-hoc timers with one priority queue drained by a
// single goroutine, so every deferred fire funnels through the same
// place and can take the workspace lock like any synchronous call.
package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is a unit of deferred work. It runs on the scheduler
// goroutine and is responsible for its own locking.
type Task func()

type entry struct {
	fireAt time.Time
	seq    int64
	task   Task
}

type queue []*entry

func (q queue) Len() int { return len(q) }

// Ties on fire time break by submission order.
func (q queue) Less(i, j int) bool {
	if q[i].fireAt.Equal(q[j].fireAt) {
		return q[i].seq < q[j].seq
	}
	return q[i].fireAt.Before(q[j].fireAt)
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x interface{}) {
	*q = append(*q, x.(*entry))
}

func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler owns the pending task queue. Once scheduled a task
// always fires; there is no cancellation.
type Scheduler struct {
	mu      sync.Mutex
	pending queue
	seq     int64
	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

// New builds a scheduler. Run must be started for tasks to fire.
func New() *Scheduler {
	return &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Schedule queues a task to run at the given time. A time in the
// past fires on the next loop iteration.
func (s *Scheduler) Schedule(fireAt time.Time, task Task) {
	s.mu.Lock()
	s.seq++
	heap.Push(&s.pending, &entry{fireAt: fireAt, seq: s.seq, task: task})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drains the queue until Stop is called. It sleeps until the
// earliest fire time, or until a new task is scheduled ahead of it.
func (s *Scheduler) Run() {
	logrus.Info("scheduler running")
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		var wait time.Duration
		if len(s.pending) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(s.pending[0].fireAt)
		}
		s.mu.Unlock()

		if wait <= 0 {
			s.fireDue()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-s.done:
			return
		case <-s.wake:
		case <-timer.C:
			s.fireDue()
		}
	}
}

// fireDue pops and runs every task whose time has come.
func (s *Scheduler) fireDue() {
	now := time.Now()
	for {
		s.mu.Lock()
		if len(s.pending) == 0 || s.pending[0].fireAt.After(now) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.pending).(*entry)
		s.mu.Unlock()

		e.task()
	}
}

// Stop ends the run loop. Pending tasks are dropped; callers stop
// the scheduler only on process shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
	logrus.Info("scheduler stopped")
}
