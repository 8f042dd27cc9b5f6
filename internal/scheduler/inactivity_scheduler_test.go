package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingScanner struct {
	calls int64
	err   error
}

func (s *countingScanner) ScanOnce() (int, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

// TestSchedulerRunsImmediatelyAndOnTick 测试启动时立即扫描并按间隔重复
func TestSchedulerRunsImmediatelyAndOnTick(t *testing.T) {
	scanner := &countingScanner{}
	s := NewInactivityScheduler(scanner, 20*time.Millisecond)

	s.Start()
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	calls := atomic.LoadInt64(&scanner.calls)
	if calls < 2 {
		t.Errorf("scan calls = %d, expected at least 2 (immediate + ticker)", calls)
	}
}

// TestSchedulerStopIdempotent 测试重复Start/Stop安全
func TestSchedulerStopIdempotent(t *testing.T) {
	scanner := &countingScanner{}
	s := NewInactivityScheduler(scanner, time.Hour)

	s.Start()
	s.Start() // 重复启动被忽略
	s.Stop()
	s.Stop() // 重复停止被忽略

	if calls := atomic.LoadInt64(&scanner.calls); calls != 1 {
		t.Errorf("scan calls = %d, expected exactly 1", calls)
	}
}

// TestSchedulerRestart 测试 Stop 之后可以重新 Start 并再次 Stop
func TestSchedulerRestart(t *testing.T) {
	scanner := &countingScanner{}
	s := NewInactivityScheduler(scanner, time.Hour)

	s.Start()
	s.Stop()
	s.Start()
	s.Stop()

	if calls := atomic.LoadInt64(&scanner.calls); calls != 2 {
		t.Errorf("scan calls = %d, expected one per start", calls)
	}

	// 第二轮启动后调度循环仍然存活
	scanner2 := &countingScanner{}
	s2 := NewInactivityScheduler(scanner2, 15*time.Millisecond)
	s2.Start()
	s2.Stop()
	s2.Start()
	time.Sleep(50 * time.Millisecond)
	s2.Stop()

	if calls := atomic.LoadInt64(&scanner2.calls); calls < 3 {
		t.Errorf("scan calls = %d, expected restarted scheduler to keep ticking", calls)
	}
}

// TestSchedulerSurvivesScanError 测试扫描出错不影响后续轮次
func TestSchedulerSurvivesScanError(t *testing.T) {
	scanner := &countingScanner{err: errors.New("db down")}
	s := NewInactivityScheduler(scanner, 15*time.Millisecond)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	if calls := atomic.LoadInt64(&scanner.calls); calls < 2 {
		t.Errorf("scan calls = %d, expected scheduler to keep running after errors", calls)
	}
}
