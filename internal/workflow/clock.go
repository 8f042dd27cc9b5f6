package workflow

import "time"

// Clock 时间源抽象，超时判定与历史时间戳都走注入的时钟，测试可以模拟时间流逝
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock 返回真实系统时钟
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock 固定时间的时钟，测试用
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance 时间前进
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
