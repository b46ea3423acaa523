package sim

import "math/rand"

// 出行方式（mode）
const (
	ModeDrive = "drive"
	ModeCycle = "cycle"
	ModeTram  = "tram"
)

// modes has a fixed order so that sampling is reproducible for a given seed.
var modes = []string{ModeDrive, ModeCycle, ModeTram}

// AgentStatus reports whether a finite-cost path to the hub exists.
type AgentStatus string

const (
	StatusReachable   AgentStatus = "reachable"
	StatusUnreachable AgentStatus = "unreachable"
)

// Agent is one sampled commuter. TotalDistance is meaningful only when
// Status is StatusReachable; it stays 0 otherwise and aggregates report null.
type Agent struct {
	HomeNode      int64       `json:"home_node"`
	Mode          string      `json:"mode"`
	TotalDistance float64     `json:"total_distance"`
	Status        AgentStatus `json:"status"`
}

// normalizeWeights turns the configured distribution into sampling
// probabilities over the fixed mode set. A zero/absent total falls back to a
// uniform distribution instead of failing.
func normalizeWeights(distribution map[string]float64) []float64 {
	weights := make([]float64, len(modes))
	total := .0
	for i, mode := range modes {
		if w := distribution[mode]; w > 0 {
			weights[i] = w
			total += w
		}
	}
	if total <= 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

func sampleMode(rng *rand.Rand, weights []float64) string {
	r := rng.Float64()
	acc := .0
	for i, w := range weights {
		acc += w
		if r < acc {
			return modes[i]
		}
	}
	// 浮点累加误差兜底
	return modes[len(modes)-1]
}

// RunABM draws count agents with mode-weighted random placement, routes each
// to the hub over the network as-is (already traffic-adjusted and possibly
// tram-augmented) and aggregates the result. Tram-mode agents draw their home
// node from tramNodes when the pool is non-empty, coupling the new mode's
// riders to the new infrastructure. Routing misses are absorbed per agent as
// unreachable; the network itself is never mutated.
func RunABM(rng *rand.Rand, n *Network, hub int64, count int, distribution map[string]float64, tramNodes []int64) (*RunStatistics, []Agent) {
	agents := make([]Agent, 0, max(count, 0))
	if n.NumNodes() == 0 {
		// 空图：记录请求数量，无agent
		stats := Aggregate(agents)
		stats.TotalAgents = max(count, 0)
		return stats, agents
	}
	weights := normalizeWeights(distribution)
	for i := 0; i < count; i++ {
		mode := sampleMode(rng, weights)
		var home int64
		if mode == ModeTram && len(tramNodes) > 0 {
			home = tramNodes[rng.Intn(len(tramNodes))]
		} else {
			home = n.NodeAt(rng.Intn(n.NumNodes()))
		}
		if d, ok := n.Distance(home, hub); ok {
			agents = append(agents, Agent{HomeNode: home, Mode: mode, TotalDistance: d, Status: StatusReachable})
		} else {
			log.Debugf("agent %d (mode=%s) unreachable from node %d", i, mode, home)
			agents = append(agents, Agent{HomeNode: home, Mode: mode, Status: StatusUnreachable})
		}
	}
	return Aggregate(agents), agents
}
