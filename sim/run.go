package sim

import "math/rand"

// RunState is the orchestrator state machine.
type RunState string

const (
	StateLoaded          RunState = "LOADED"
	StateTrafficAdjusted RunState = "TRAFFIC_ADJUSTED"
	StateBaselineRouted  RunState = "BASELINE_ROUTED"
	StateScenarioApplied RunState = "SCENARIO_APPLIED"
	StateScenarioRouted  RunState = "SCENARIO_ROUTED"
	StateAggregated      RunState = "AGGREGATED"
	StateFailed          RunState = "FAILED"
)

// NetworkLoader is the external network source: given a city identifier it
// returns a ready-to-use weighted network with per-node coordinates and
// per-edge lengths already populated.
type NetworkLoader interface {
	LoadNetwork(city string) (*Network, error)
}

// StopSource resolves per-city stop coordinate tables and hub defaults.
// Absent cities yield an empty table, not an error.
type StopSource interface {
	Stops(city string) StopTable
	Hub(city string) string
}

// RunResult pairs the baseline and tramline artifacts of one orchestrator
// invocation. State is StateAggregated on success; a failed run carries
// StateFailed together with a non-nil error from Run, so callers can always
// tell "zero reachable agents" (a valid result) from "run aborted".
type RunResult struct {
	State     RunState `json:"state"`
	Hub       int64    `json:"hub"`
	TramNodes []int64  `json:"tram_nodes"`

	Baseline *RunStatistics `json:"baseline"`
	Tramline *RunStatistics `json:"tramline"`

	BaselineAgents []Agent `json:"-"`
	TramlineAgents []Agent `json:"-"`
}

// Run executes the full comparison: load network, adjust for traffic, route
// the baseline population, clone the network, apply the tram scenario and
// route again with the same sampling parameters. The scenario pass always
// works on a structural copy, so the one inserted link is the only difference
// between the two passes.
func Run(cfg *Config, loader NetworkLoader, stopSource StopSource, rng *rand.Rand) (*RunResult, error) {
	res := &RunResult{State: StateFailed}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return res, err
	}

	base, err := loader.LoadNetwork(cfg.City)
	if err != nil {
		return res, err
	}
	if base.NumNodes() == 0 {
		return res, newConfigError("network of city %q has no nodes", cfg.City)
	}
	advance(res, StateLoaded)
	log.Infof("loaded network of %q: %d nodes, %d directed edges", cfg.City, base.NumNodes(), base.NumEdges())

	AdjustForTraffic(base, cfg.Traffic)
	advance(res, StateTrafficAdjusted)

	stops := stopSource.Stops(cfg.City)
	hub, err := ResolveHub(base, cfg, stops, stopSource.Hub(cfg.City))
	if err != nil {
		// hub解析失败在任何路由之前中止
		return res, err
	}
	res.Hub = hub

	res.Baseline, res.BaselineAgents = RunABM(rng, base, hub, cfg.NumAgents, cfg.AgentDistribution, nil)
	advance(res, StateBaselineRouted)

	// scenario网络必须是结构复制，电车边不得泄漏回baseline
	scenario := base.Clone()
	res.TramNodes = cfg.Scenario().Apply(scenario, stops)
	advance(res, StateScenarioApplied)
	log.Infof("scenario touched %d nodes", len(res.TramNodes))

	res.Tramline, res.TramlineAgents = RunABM(rng, scenario, hub, cfg.NumAgents, cfg.AgentDistribution, res.TramNodes)
	advance(res, StateScenarioRouted)

	advance(res, StateAggregated)
	return res, nil
}

func advance(res *RunResult, to RunState) {
	log.Debugf("run state: %s -> %s", res.State, to)
	res.State = to
}
