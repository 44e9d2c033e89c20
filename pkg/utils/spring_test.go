package utils

import (
	"math"
	"testing"
)

var scrollSpring = SpringParams{Stiffness: 40, Damping: 20, Mass: 1}

// TestSpringParams 测试参数换算
func TestSpringParams(t *testing.T) {
	if got := scrollSpring.AngularFrequency(); math.Abs(got-math.Sqrt(40)) > 1e-9 {
		t.Errorf("AngularFrequency = %v", got)
	}
	// 20 / (2*sqrt(40)) ≈ 1.58，过阻尼
	if got := scrollSpring.DampingRatio(); got < 1 {
		t.Errorf("DampingRatio = %v, 期望 >= 1", got)
	}
	if got := (SpringParams{}).DampingRatio(); got != 1 {
		t.Errorf("零参数阻尼比 = %v, 期望 1", got)
	}
}

// TestSpringStep_ConvergesWithoutOvershoot 弹簧收敛且不越过目标
func TestSpringStep_ConvergesWithoutOvershoot(t *testing.T) {
	pos, vel := 0.0, 0.0
	dt := 1.0 / 60
	prev := pos

	for i := 0; i < 60*10; i++ {
		pos, vel = SpringStep(pos, vel, 1, dt, scrollSpring)
		if pos > 1+1e-9 {
			t.Fatalf("第 %d 帧越过目标: %v", i, pos)
		}
		if pos < prev-1e-12 {
			t.Fatalf("第 %d 帧出现回退: %v < %v", i, pos, prev)
		}
		prev = pos
	}

	if !SpringSettled(pos, vel, 1, 1e-3) {
		t.Errorf("10 秒后未稳定: pos=%v vel=%v", pos, vel)
	}
}

// TestSpringStep_NoJump 目标突变时单帧位移有限
func TestSpringStep_NoJump(t *testing.T) {
	dt := 1.0 / 60
	pos, _ := SpringStep(0, 0, 1100, dt, scrollSpring)

	// 一帧内不可能直接到达目标
	if pos <= 0 || pos >= 1100*0.1 {
		t.Errorf("单帧位移异常: %v", pos)
	}
}

// TestSpringStep_Degenerate 测试边界参数
func TestSpringStep_Degenerate(t *testing.T) {
	t.Run("dt 为 0 保持不变", func(t *testing.T) {
		pos, vel := SpringStep(3, 2, 10, 0, scrollSpring)
		if pos != 3 || vel != 2 {
			t.Errorf("got (%v, %v)", pos, vel)
		}
	})

	t.Run("刚度为 0 直接跟随", func(t *testing.T) {
		pos, vel := SpringStep(3, 2, 10, 1.0/60, SpringParams{})
		if pos != 10 || vel != 0 {
			t.Errorf("got (%v, %v)", pos, vel)
		}
	})
}
