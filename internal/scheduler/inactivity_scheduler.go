package scheduler

import (
	"sync"
	"time"

	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
)

// InactivityScanner 超时扫描服务接口，由 service.InactivityService 实现
type InactivityScanner interface {
	ScanOnce() (int, error)
}

// ScanLock 扫描互斥锁，多实例部署时由 distributed.RedisLock 实现
type ScanLock interface {
	TryLock() (bool, error)
	Unlock() error
}

// LockFactory 每轮扫描创建一把新锁
type LockFactory func() ScanLock

// InactivityScheduler 超时失活调度器
// 按固定间隔扫描停滞提案并将其标记为 Inactive
type InactivityScheduler struct {
	scanner  InactivityScanner
	interval time.Duration
	lockFn   LockFactory
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

func NewInactivityScheduler(scanner InactivityScanner, interval time.Duration) *InactivityScheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &InactivityScheduler{
		scanner:  scanner,
		interval: interval,
	}
}

// Start 启动调度器，先立即执行一轮扫描再进入定时循环
// Stop 之后可以再次 Start，每次启动使用新的停止通道
func (s *InactivityScheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopChan = make(chan struct{})
	stopChan := s.stopChan
	s.mu.Unlock()

	logger.Infof("超时失活调度器启动，扫描间隔 %s", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runScan()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runScan()
			case <-stopChan:
				logger.Info("超时失活调度器已停止")
				return
			}
		}
	}()
}

// WithLock 设置扫描互斥锁工厂，必须在 Start 之前调用
func (s *InactivityScheduler) WithLock(factory LockFactory) *InactivityScheduler {
	s.lockFn = factory
	return s
}

func (s *InactivityScheduler) runScan() {
	if s.lockFn != nil {
		lock := s.lockFn()
		acquired, err := lock.TryLock()
		if err != nil {
			logger.Errorf("获取扫描锁失败: %v", err)
			return
		}
		if !acquired {
			logger.Debugf("本轮超时扫描由其他实例执行，跳过")
			return
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Errorf("释放扫描锁失败: %v", err)
			}
		}()
	}

	count, err := s.scanner.ScanOnce()
	if err != nil {
		logger.Errorf("超时扫描失败: %v", err)
		return
	}
	if count > 0 {
		logger.Infof("本轮超时扫描失活 %d 个提案", count)
	}
}

// Stop 停止调度器并等待扫描 goroutine 退出
func (s *InactivityScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	close(s.stopChan)
	s.wg.Wait()
	s.started = false
}
