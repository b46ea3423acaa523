package sim

import "math"

// ModeStats is the per-mode breakdown of a run. Distance fields are nil (JSON
// null) when the mode has no reachable agents; 0 is never substituted for an
// undefined average.
type ModeStats struct {
	Count       int      `json:"count"`
	Reachable   int      `json:"reachable_count"`
	Unreachable int      `json:"unreachable"`
	AvgDistance *float64 `json:"avg_distance"`
	MinDistance *float64 `json:"min_distance"`
	MaxDistance *float64 `json:"max_distance"`
}

// RunStatistics is the population-level summary of one routing pass, paired
// (baseline, tramline) for differential reporting. Serializes to a flat
// JSON-compatible record: primitives, nested mappings and nulls only.
type RunStatistics struct {
	TotalAgents int                   `json:"total_agents"`
	Reachable   int                   `json:"reachable_count"`
	Unreachable int                   `json:"unreachable"`
	AvgDistance *float64              `json:"avg_distance"`
	MinDistance *float64              `json:"min_distance"`
	MaxDistance *float64              `json:"max_distance"`
	Modes       map[string]*ModeStats `json:"modes"`
}

type distanceAcc struct {
	sum      float64
	min, max float64
	n        int
}

func (a *distanceAcc) add(d float64) {
	if a.n == 0 {
		a.min, a.max = d, d
	} else {
		a.min = math.Min(a.min, d)
		a.max = math.Max(a.max, d)
	}
	a.sum += d
	a.n++
}

func (a *distanceAcc) fill(avg, min, max **float64) {
	if a.n == 0 {
		return
	}
	v := a.sum / float64(a.n)
	mn, mx := a.min, a.max
	*avg, *min, *max = &v, &mn, &mx
}

// Aggregate reduces an agent list into RunStatistics. Pure and deterministic:
// no side effects, no randomness, distances taken over reachable agents only.
func Aggregate(agents []Agent) *RunStatistics {
	stats := &RunStatistics{Modes: make(map[string]*ModeStats)}
	popAcc := &distanceAcc{}
	modeAccs := make(map[string]*distanceAcc)
	for _, a := range agents {
		stats.TotalAgents++
		ms, ok := stats.Modes[a.Mode]
		if !ok {
			ms = &ModeStats{}
			stats.Modes[a.Mode] = ms
			modeAccs[a.Mode] = &distanceAcc{}
		}
		ms.Count++
		if a.Status != StatusReachable {
			stats.Unreachable++
			ms.Unreachable++
			continue
		}
		stats.Reachable++
		ms.Reachable++
		popAcc.add(a.TotalDistance)
		modeAccs[a.Mode].add(a.TotalDistance)
	}
	popAcc.fill(&stats.AvgDistance, &stats.MinDistance, &stats.MaxDistance)
	for mode, ms := range stats.Modes {
		modeAccs[mode].fill(&ms.AvgDistance, &ms.MinDistance, &ms.MaxDistance)
	}
	return stats
}
