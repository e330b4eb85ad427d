package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kobrakid/partsim/internal/psys"
)

const (
	DefaultDt          = 1.0 / 60.0
	DefaultDrag        = 0.985
	DefaultGravity     = 9.8
	DefaultRestitution = 0.85
	DefaultParticles   = 500
	DefaultSteps       = 600
	DefaultClothRows   = 12
	DefaultClothCols   = 12
)

type Config struct {
	Scene       string  `yaml:"scene"`
	Integrator  string  `yaml:"integrator"`
	Particles   int     `yaml:"particles"`
	Dt          float64 `yaml:"dt"`
	Drag        float64 `yaml:"drag"`
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
	Seed        int64   `yaml:"seed"`
	Steps       int     `yaml:"steps"`

	Cloth ClothConfig `yaml:"cloth"`
	Flock FlockConfig `yaml:"flock"`
}

type ClothConfig struct {
	Rows      int     `yaml:"rows"`
	Cols      int     `yaml:"cols"`
	Spacing   float64 `yaml:"spacing"`
	Stiffness float64 `yaml:"stiffness"`
}

type FlockConfig struct {
	InnerRadius float64 `yaml:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius"`
	Binocular   float64 `yaml:"binocular"`
	Monocular   float64 `yaml:"monocular"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:       "snow",
		Integrator:  "midpoint",
		Particles:   DefaultParticles,
		Dt:          DefaultDt,
		Drag:        DefaultDrag,
		Gravity:     DefaultGravity,
		Restitution: DefaultRestitution,
		Steps:       DefaultSteps,
		Cloth: ClothConfig{
			Rows:      DefaultClothRows,
			Cols:      DefaultClothCols,
			Spacing:   0.12,
			Stiffness: 40,
		},
		Flock: FlockConfig{
			InnerRadius: 0.5,
			OuterRadius: 2.5,
			Binocular:   0.8,
			Monocular:   2.4,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Tuning converts the shared knobs into the struct the core consumes.
func (c *Config) Tuning() psys.Tuning {
	return psys.Tuning{
		Dt:          c.Dt,
		Drag:        c.Drag,
		Gravity:     c.Gravity,
		Restitution: c.Restitution,
	}
}
