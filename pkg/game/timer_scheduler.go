package game

import (
	"math"
	"sort"
	"time"
)

// TimerHandle 定时器句柄，0 为无效句柄
type TimerHandle uint64

// scheduledTimer 一个待触发的一次性定时器
type scheduledTimer struct {
	id  TimerHandle
	due time.Duration
	fn  func()
}

// TimerScheduler 由帧时间推进的一次性定时器队列
//
// 与 TimerComponent 一样按 dt 累计时间，不依赖真实时钟，也不创建协程：
// 定时器只会在 Advance 内、在调用方的线程上触发。
// 同一时刻到期的定时器按注册顺序触发。
type TimerScheduler struct {
	elapsed time.Duration
	nextID  TimerHandle
	timers  []*scheduledTimer
}

// NewTimerScheduler 创建定时器队列
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{nextID: 1}
}

// After 注册一个 d 之后触发的回调
// d <= 0 的定时器在下一次 Advance 时触发
func (s *TimerScheduler) After(d time.Duration, fn func()) TimerHandle {
	if d < 0 {
		d = 0
	}
	id := s.nextID
	s.nextID++

	s.timers = append(s.timers, &scheduledTimer{id: id, due: addSaturated(s.elapsed, d), fn: fn})
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due == s.timers[j].due {
			return s.timers[i].id < s.timers[j].id
		}
		return s.timers[i].due < s.timers[j].due
	})
	return id
}

// Cancel 取消定时器，返回是否确实取消了一个待触发的定时器
func (s *TimerScheduler) Cancel(h TimerHandle) bool {
	for i, t := range s.timers {
		if t.id == h {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll 取消全部定时器
func (s *TimerScheduler) CancelAll() {
	s.timers = s.timers[:0]
}

// Pending 待触发定时器数量
func (s *TimerScheduler) Pending() int {
	return len(s.timers)
}

// Elapsed 累计推进的时间
func (s *TimerScheduler) Elapsed() time.Duration {
	return s.elapsed
}

// addSaturated 两个非负时长相加，溢出时停在最大值
func addSaturated(a, b time.Duration) time.Duration {
	if b > math.MaxInt64-a {
		return math.MaxInt64
	}
	return a + b
}

// Advance 推进 dt 秒并按到期顺序触发定时器，返回触发数量
// dt 为负数或 NaN 时按 0 处理，累计时间到达 time.Duration 上限后不再增长
//
// 回调执行时 Elapsed() 等于该定时器的到期时刻，
// 因此在回调中注册的新定时器以到期时刻为起点计时。
func (s *TimerScheduler) Advance(dt float64) int {
	if !(dt > 0) {
		dt = 0
	}
	step := time.Duration(math.MaxInt64)
	if secs := dt * float64(time.Second); secs < float64(math.MaxInt64) {
		step = time.Duration(secs)
	}
	target := addSaturated(s.elapsed, step)

	fired := 0
	for len(s.timers) > 0 && s.timers[0].due <= target {
		t := s.timers[0]
		s.timers = s.timers[1:]
		if t.due > s.elapsed {
			s.elapsed = t.due
		}
		t.fn()
		fired++
	}
	s.elapsed = target
	return fired
}
