package sim

import (
	"encoding/json"
	"os"
)

// 默认仿真参数
const DefaultNumAgents = 300

func defaultAgentDistribution() map[string]float64 {
	return map[string]float64{ModeDrive: 60, ModeCycle: 10, ModeTram: 30}
}

// ScenarioConfig is the nested scenario block of the request configuration.
type ScenarioConfig struct {
	TramStops []string `json:"tram_stops"`
	Length    float64  `json:"length"`
}

// Config is the validated run configuration. Legacy keys of the request
// format (traffic_level, tram_start/tram_end, nested scenarios block) are
// folded into the canonical fields by Normalize.
type Config struct {
	City string `json:"city"`

	Traffic      string `json:"traffic"`
	TrafficLevel string `json:"traffic_level"` // legacy alias of Traffic

	TramStops  []string `json:"tram_stops"`
	TramStart  string   `json:"tram_start"` // legacy: two-stop shorthand
	TramEnd    string   `json:"tram_end"`
	TramLength float64  `json:"tram_length"`

	// hub按名称（经停站表解析）或坐标给出，坐标优先
	Hub      string  `json:"hub"`
	HubCoord *LatLon `json:"hub_coord"`

	NumAgents         int                `json:"num_agents"`
	AgentDistribution map[string]float64 `json:"agent_distribution"`

	Scenarios map[string]ScenarioConfig `json:"scenarios"` // legacy nested form
}

// LoadConfig reads and normalizes a JSON config file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

// Normalize resolves legacy keys and fills defaults. Safe to call repeatedly.
func (c *Config) Normalize() {
	if c.Traffic == "" {
		c.Traffic = c.TrafficLevel
	}
	if c.Traffic == "" {
		c.Traffic = RegimeOffPeak
	}
	if len(c.TramStops) == 0 {
		if s, ok := c.Scenarios["tramline_extension"]; ok {
			c.TramStops = s.TramStops
			if c.TramLength == 0 {
				c.TramLength = s.Length
			}
		}
	}
	if len(c.TramStops) == 0 && c.TramStart != "" && c.TramEnd != "" {
		c.TramStops = []string{c.TramStart, c.TramEnd}
	}
	if c.TramLength <= 0 {
		c.TramLength = DefaultTramLength
	}
	if c.NumAgents == 0 {
		c.NumAgents = DefaultNumAgents
	}
	if len(c.AgentDistribution) == 0 {
		c.AgentDistribution = defaultAgentDistribution()
	}
}

// Validate rejects configurations that make a run impossible.
func (c *Config) Validate() error {
	if c.City == "" {
		return newConfigError("city is required")
	}
	if c.NumAgents < 0 {
		return newConfigError("num_agents must not be negative, got %d", c.NumAgents)
	}
	if len(c.TramStops) < 2 {
		return newConfigError("at least 2 tram stops are required, got %d", len(c.TramStops))
	}
	for mode, w := range c.AgentDistribution {
		if w < 0 {
			return newConfigError("agent_distribution[%s] must not be negative, got %v", mode, w)
		}
	}
	return nil
}

// Scenario builds the tram-link scenario described by the config.
func (c *Config) Scenario() *Scenario {
	return NewScenario(c.TramStops, c.TramLength)
}
