package worker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingSink 线程安全地记录落库的增量
type countingSink struct {
	mu       sync.Mutex
	counts   map[uint]int64
	failNext int // 前 N 次调用返回错误
}

func newCountingSink() *countingSink {
	return &countingSink{counts: make(map[uint]int64)}
}

func (s *countingSink) IncrementViews(postID uint, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext > 0 {
		s.failNext--
		return errors.New("db unavailable")
	}
	s.counts[postID] += n
	return nil
}

func (s *countingSink) total(postID uint) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[postID]
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestViewRecorderAggregatesPerPost(t *testing.T) {
	sink := newCountingSink()
	recorder := NewViewRecorder(sink, 2, 64)
	recorder.flushInterval = 20 * time.Millisecond
	recorder.Start()
	defer recorder.Stop()

	for i := 0; i < 5; i++ {
		recorder.Record(1)
	}
	recorder.Record(2)

	waitFor(t, 2*time.Second, func() bool {
		return sink.total(1) == 5 && sink.total(2) == 1
	})
}

func TestViewRecorderNeverDecrements(t *testing.T) {
	sink := newCountingSink()
	recorder := NewViewRecorder(sink, 1, 64)
	recorder.flushInterval = 20 * time.Millisecond
	recorder.Start()
	defer recorder.Stop()

	recorder.Record(1)
	waitFor(t, 2*time.Second, func() bool { return sink.total(1) == 1 })

	// 再记两次，计数只会继续增长
	recorder.Record(1)
	recorder.Record(1)
	waitFor(t, 2*time.Second, func() bool { return sink.total(1) == 3 })
}

func TestViewRecorderRetriesFailedFlush(t *testing.T) {
	sink := newCountingSink()
	sink.failNext = 1
	recorder := NewViewRecorder(sink, 1, 64)
	recorder.flushInterval = 20 * time.Millisecond
	recorder.Start()
	defer recorder.Stop()

	recorder.Record(7)

	// 首次落库失败后走重试队列，最终计数不丢
	waitFor(t, 5*time.Second, func() bool { return sink.total(7) == 1 })
}

func TestViewRecorderStopIsIdempotent(t *testing.T) {
	recorder := NewViewRecorder(newCountingSink(), 1, 8)
	recorder.Start()

	assert.NotPanics(t, func() {
		recorder.Stop()
		recorder.Stop()
	})
}
