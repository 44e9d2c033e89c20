package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestTimerScheduler_FiresInOrder 按到期顺序触发
func TestTimerScheduler_FiresInOrder(t *testing.T) {
	s := NewTimerScheduler()
	var order []string

	s.After(2500*time.Millisecond, func() { order = append(order, "circle") })
	s.After(500*time.Millisecond, func() { order = append(order, "line") })

	assert.Equal(t, 0, s.Advance(0.4))
	assert.Empty(t, order)

	assert.Equal(t, 1, s.Advance(0.1))
	assert.Equal(t, []string{"line"}, order)

	assert.Equal(t, 1, s.Advance(3))
	assert.Equal(t, []string{"line", "circle"}, order)
	assert.Equal(t, 0, s.Pending())
}

// TestTimerScheduler_SingleLargeStep 一次大步长推进时全部按序触发
func TestTimerScheduler_SingleLargeStep(t *testing.T) {
	s := NewTimerScheduler()
	var seen []time.Duration

	s.After(2500*time.Millisecond, func() { seen = append(seen, s.Elapsed()) })
	s.After(500*time.Millisecond, func() { seen = append(seen, s.Elapsed()) })

	assert.Equal(t, 2, s.Advance(10))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 2500 * time.Millisecond}, seen)
	assert.Equal(t, 10*time.Second, s.Elapsed())
}

// TestTimerScheduler_SameDueKeepsRegistrationOrder 同时到期按注册顺序
func TestTimerScheduler_SameDueKeepsRegistrationOrder(t *testing.T) {
	s := NewTimerScheduler()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.After(time.Second, func() { order = append(order, i) })
	}
	s.Advance(1)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

// TestTimerScheduler_Cancel 取消后不再触发
func TestTimerScheduler_Cancel(t *testing.T) {
	s := NewTimerScheduler()
	fired := false
	h := s.After(time.Second, func() { fired = true })

	assert.True(t, s.Cancel(h))
	assert.False(t, s.Cancel(h), "second cancel is a no-op")

	s.Advance(5)
	assert.False(t, fired)
}

// TestTimerScheduler_CancelAll 全部取消
func TestTimerScheduler_CancelAll(t *testing.T) {
	s := NewTimerScheduler()
	count := 0
	s.After(time.Second, func() { count++ })
	s.After(2*time.Second, func() { count++ })

	s.CancelAll()
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, 0, s.Advance(10))
	assert.Equal(t, 0, count)
}

// TestTimerScheduler_NestedScheduling 回调中注册的定时器从到期时刻起算
func TestTimerScheduler_NestedScheduling(t *testing.T) {
	s := NewTimerScheduler()
	var at time.Duration
	s.After(time.Second, func() {
		s.After(time.Second, func() { at = s.Elapsed() })
	})

	s.Advance(5)
	assert.Equal(t, 2*time.Second, at)
}

// TestTimerScheduler_NegativeInputs 负数输入按 0 处理
func TestTimerScheduler_NegativeInputs(t *testing.T) {
	s := NewTimerScheduler()
	fired := false
	s.After(-time.Second, func() { fired = true })

	s.Advance(-1)
	assert.True(t, fired)
	assert.Equal(t, time.Duration(0), s.Elapsed())
}

// TestTimerScheduler_HugeStep 超出 time.Duration 范围的推进停在上限，时间不会倒退
func TestTimerScheduler_HugeStep(t *testing.T) {
	s := NewTimerScheduler()
	fired := 0
	s.After(2500*time.Millisecond, func() { fired++ })

	assert.Equal(t, 1, s.Advance(1e10))
	assert.Equal(t, 1, fired)
	assert.Equal(t, time.Duration(math.MaxInt64), s.Elapsed())

	s.After(time.Second, func() { fired++ })
	assert.Equal(t, 1, s.Advance(3))
	assert.Equal(t, 2, fired)
	assert.Equal(t, time.Duration(math.MaxInt64), s.Elapsed())

	s.Advance(math.Inf(1))
	s.Advance(math.NaN())
	assert.Equal(t, time.Duration(math.MaxInt64), s.Elapsed())
}

// TestTimerScheduler_NaNStep NaN 按 0 处理
func TestTimerScheduler_NaNStep(t *testing.T) {
	s := NewTimerScheduler()
	s.After(time.Second, func() {})

	assert.Equal(t, 0, s.Advance(math.NaN()))
	assert.Equal(t, time.Duration(0), s.Elapsed())
	assert.Equal(t, 1, s.Pending())
}
