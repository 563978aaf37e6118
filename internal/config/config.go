// Package config handles remesher configuration loading and management.
package config

// Config holds all isimp settings.
type Config struct {
	VSA     VSAConfig     `yaml:"vsa" toml:"vsa"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// VSAConfig holds the clustering and remeshing parameters.
type VSAConfig struct {
	NumProxies         int     `yaml:"num_proxies" toml:"num_proxies"`
	NumIterations      int     `yaml:"num_iterations" toml:"num_iterations"`
	EdgeSplitThreshold float64 `yaml:"edge_split_threshold" toml:"edge_split_threshold"`
	KeepHoles          bool    `yaml:"keep_holes" toml:"keep_holes"`
}

// OutputConfig controls what the CLI writes next to the mesh.
type OutputConfig struct {
	StateSuffix    string `yaml:"state_suffix" toml:"state_suffix"`       // Sidecar holding labels and seeds
	WriteMaterials bool   `yaml:"write_materials" toml:"write_materials"` // Emit .mtl with proxy colors
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		VSA: VSAConfig{
			NumProxies:         6,
			NumIterations:      20,
			EdgeSplitThreshold: 1.0,
			KeepHoles:          false,
		},
		Output: OutputConfig{
			StateSuffix:    ".vsa",
			WriteMaterials: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
