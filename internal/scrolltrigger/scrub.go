package scrolltrigger

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scrub 进度与时间线播放头的绑定方式
type Scrub struct {
	// Enabled 为 false 时时间线由 ToggleActions 驱动
	Enabled bool
	// Lag 平滑系数（秒），0 表示精确绑定
	Lag float64
}

var (
	// ScrubOff 不绑定播放头
	ScrubOff = Scrub{}
	// ScrubExact 播放头精确跟随滚动进度
	ScrubExact = Scrub{Enabled: true}
)

// ScrubSmooth 播放头以一阶滤波追赶滚动进度
func ScrubSmooth(k float64) Scrub {
	if k < 0 {
		k = 0
	}
	return Scrub{Enabled: true, Lag: k}
}

// settleEpsilon 平滑进度与目标之差小于该值时直接对齐
const settleEpsilon = 1e-4

// step 以 dt 推进一次平滑：每帧向目标移动 min(1, dt/k) 的比例
func (s Scrub) step(current, target, dt float64) float64 {
	if !s.Enabled || s.Lag <= 0 {
		return target
	}
	alpha := dt / s.Lag
	if alpha > 1 {
		alpha = 1
	}
	next := current + (target-current)*alpha
	if d := target - next; d < settleEpsilon && d > -settleEpsilon {
		return target
	}
	return next
}

// UnmarshalYAML 接受 false、true 或数字
func (s *Scrub) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		if b {
			*s = ScrubExact
		} else {
			*s = ScrubOff
		}
		return nil
	}
	var k float64
	if err := value.Decode(&k); err != nil {
		return fmt.Errorf("scrub must be a boolean or a number, got %q", value.Value)
	}
	*s = ScrubSmooth(k)
	return nil
}

// String 便于日志输出
func (s Scrub) String() string {
	switch {
	case !s.Enabled:
		return "off"
	case s.Lag == 0:
		return "exact"
	}
	return fmt.Sprintf("smooth(%g)", s.Lag)
}
