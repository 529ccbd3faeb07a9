package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gateway Gateway `yaml:"gateway"`
	Sim     Sim     `yaml:"sim"`
	Actions Actions `yaml:"actions"`
	Record  Record  `yaml:"record"`
}

type Gateway struct {
	URL       string `yaml:"url"`
	AgentName string `yaml:"agent_name"`
}

type Sim struct {
	TickRateHz int `yaml:"tick_rate_hz"`

	// Physics, in blocks and blocks/second.
	Gravity     float64 `yaml:"gravity"`
	WalkSpeed   float64 `yaml:"walk_speed"`
	SprintSpeed float64 `yaml:"sprint_speed"`
	JumpSpeed   float64 `yaml:"jump_speed"`

	AttackCooldownTicks int `yaml:"attack_cooldown_ticks"`
	JumpCooldownTicks   int `yaml:"jump_cooldown_ticks"`

	StrikeRange    float64 `yaml:"strike_range"`
	ReachDistance  float64 `yaml:"reach_distance"`
	MoveTolerance  float64 `yaml:"move_tolerance"`
	WaypointRadius float64 `yaml:"waypoint_radius"`
}

type Actions struct {
	DigGraceTicks     int `yaml:"dig_grace_ticks"`
	OpenTimeoutTicks  int `yaml:"open_timeout_ticks"`
	CraftTimeoutTicks int `yaml:"craft_timeout_ticks"`
	MoveTimeoutTicks  int `yaml:"move_timeout_ticks"`
}

type Record struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

func Default() Config {
	return Config{
		Gateway: Gateway{
			URL:       "ws://localhost:8080/v1/ws",
			AgentName: "agent",
		},
		Sim: Sim{
			TickRateHz:          20,
			Gravity:             32,
			WalkSpeed:           4.3,
			SprintSpeed:         5.6,
			JumpSpeed:           9,
			AttackCooldownTicks: 10,
			JumpCooldownTicks:   10,
			StrikeRange:         3,
			ReachDistance:       4.5,
			MoveTolerance:       0.5,
			WaypointRadius:      0.3,
		},
		Actions: Actions{
			DigGraceTicks:     40,
			OpenTimeoutTicks:  100,
			CraftTimeoutTicks: 200,
			MoveTimeoutTicks:  2400,
		},
		Record: Record{
			Enabled: false,
			Dir:     "data/sessions",
		},
	}
}

// Load reads a YAML config, starting from Default so omitted keys keep
// their defaults.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Sim.TickRateHz <= 0 {
		return fmt.Errorf("sim.tick_rate_hz must be positive, got %d", c.Sim.TickRateHz)
	}
	if c.Sim.Gravity < 0 {
		return fmt.Errorf("sim.gravity must not be negative")
	}
	if c.Sim.WalkSpeed <= 0 || c.Sim.JumpSpeed <= 0 {
		return fmt.Errorf("sim speeds must be positive")
	}
	if c.Sim.AttackCooldownTicks < 0 || c.Sim.JumpCooldownTicks < 0 {
		return fmt.Errorf("cooldown ticks must not be negative")
	}
	return nil
}
