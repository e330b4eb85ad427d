package config

var Presets = map[string]map[string]*Config{
	"snow": {
		"flurry": {
			Scene: "snow", Integrator: "midpoint", Particles: 400,
			Dt: DefaultDt, Drag: 0.99, Gravity: 2.5, Restitution: 0.2,
		},
		"blizzard": {
			Scene: "snow", Integrator: "euler", Particles: 2000,
			Dt: DefaultDt, Drag: 0.97, Gravity: 4.0, Restitution: 0.1,
		},
	},
	"boids": {
		"murmuration": {
			Scene: "boids", Integrator: "midpoint", Particles: 200,
			Dt: DefaultDt, Drag: DefaultDrag, Gravity: 0, Restitution: 1,
			Flock: FlockConfig{InnerRadius: 0.5, OuterRadius: 3.0, Binocular: 0.8, Monocular: 2.4},
		},
		"tight": {
			Scene: "boids", Integrator: "adams", Particles: 80,
			Dt: DefaultDt, Drag: DefaultDrag, Gravity: 0, Restitution: 1,
			Flock: FlockConfig{InnerRadius: 0.3, OuterRadius: 1.5, Binocular: 0.6, Monocular: 1.8},
		},
	},
	"fountain": {
		"ember": {
			Scene: "fountain", Integrator: "midpoint", Particles: 800,
			Dt: DefaultDt, Drag: DefaultDrag, Gravity: 3.5, Restitution: 0.4,
		},
		"roman": {
			Scene: "fountain", Integrator: "corrected", Particles: 300,
			Dt: DefaultDt, Drag: DefaultDrag, Gravity: 6.0, Restitution: 0.6,
		},
	},
	"cloth": {
		"banner": {
			Scene: "cloth", Integrator: "corrected",
			Dt: 0.004, Drag: 0.99, Gravity: 9.8, Restitution: 0.3,
			Cloth: ClothConfig{Rows: 10, Cols: 16, Spacing: 0.1, Stiffness: 50},
		},
		"drape": {
			Scene: "cloth", Integrator: "midpoint",
			Dt: 0.004, Drag: 0.99, Gravity: 9.8, Restitution: 0.3,
			Cloth: ClothConfig{Rows: 14, Cols: 14, Spacing: 0.08, Stiffness: 35},
		},
	},
}

// GetPreset returns a named preset for a scene, or nil when either name is
// unknown.
func GetPreset(scene, name string) *Config {
	group, ok := Presets[scene]
	if !ok {
		return nil
	}
	return group[name]
}

// ListPresets returns the preset names available for a scene.
func ListPresets(scene string) []string {
	group, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
