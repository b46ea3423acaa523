package sim

import "strings"

// 交通状态（traffic regime）
const (
	RegimeOffPeak = "off-peak"
	RegimeNormal  = "normal"
	RegimePeak    = "peak"

	// 高峰期边权缩放系数
	CongestionFactor = 1.5
)

// NormalizeRegime maps case/hyphen/space variants onto a canonical regime.
// ok为false表示无法识别。
func NormalizeRegime(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "peak", "rush hour", "rush-hour", "rushhour":
		return RegimePeak, true
	case "off-peak", "off peak", "offpeak":
		return RegimeOffPeak, true
	case "normal":
		return RegimeNormal, true
	}
	return "", false
}

// AdjustForTraffic recomputes every edge's current length from its base
// length and the regime's congestion factor. The base length is captured from
// the current length on the first call and never overwritten, so repeated
// application is idempotent and regime switches restore exactly.
// 原地修改，返回同一引用便于链式调用。
func AdjustForTraffic(n *Network, regime string) *Network {
	canon, ok := NormalizeRegime(regime)
	if !ok {
		// 未知regime仅告警，回退到off-peak
		log.Warnf("unknown traffic regime %q, falling back to %s", regime, RegimeOffPeak)
		canon = RegimeOffPeak
	}
	factor := 1.0
	if canon == RegimePeak {
		factor = CongestionFactor
	}
	n.scaleEdges(factor)
	return n
}
