package sim

import "github.com/samber/lo"

// 电车边默认边长
const DefaultTramLength = 300

// Scenario is a proposed network modification: a tram link along an ordered
// stop list. Constructed once from the request configuration and consumed by
// Apply, not mutated afterwards.
type Scenario struct {
	TramStops []string
	Length    float64
}

func NewScenario(stops []string, length float64) *Scenario {
	if length <= 0 {
		length = DefaultTramLength
	}
	return &Scenario{TramStops: stops, Length: length}
}

// Apply inserts one bidirectional tram edge per consecutive stop pair whose
// names both resolve in the stop table. Missing names skip the pair with a
// warning; partial scenarios are valid and this never fails. A road edge
// already connecting the pair at a shorter length stays in place. Returns the
// touched node ids in first-occurrence order, de-duplicated; empty when fewer
// than two stops or no pair resolved.
func (s *Scenario) Apply(n *Network, stops StopTable) []int64 {
	if len(s.TramStops) < 2 {
		return []int64{}
	}
	added := make([]int64, 0, 2*(len(s.TramStops)-1))
	for i := 0; i+1 < len(s.TramStops); i++ {
		name1, name2 := s.TramStops[i], s.TramStops[i+1]
		c1, ok1 := stops[name1]
		c2, ok2 := stops[name2]
		if !ok1 || !ok2 {
			// 缺失坐标的站点对跳过，不报错
			log.Warnf("tram stop pair (%q, %q) has missing coordinates, skipped", name1, name2)
			continue
		}
		n1, ok1 := n.NearestNode(c1.Lat, c1.Lon)
		n2, ok2 := n.NearestNode(c2.Lat, c2.Lon)
		if !ok1 || !ok2 {
			continue
		}
		n.AddTramEdge(n1, n2, s.Length)
		added = append(added, n1, n2)
	}
	return lo.Uniq(added)
}
