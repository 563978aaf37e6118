package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.VSA.NumProxies != 6 {
		t.Errorf("expected 6 proxies, got %d", cfg.VSA.NumProxies)
	}
	if cfg.VSA.NumIterations != 20 {
		t.Errorf("expected 20 iterations, got %d", cfg.VSA.NumIterations)
	}
	if cfg.VSA.EdgeSplitThreshold != 1.0 {
		t.Errorf("expected threshold 1.0, got %f", cfg.VSA.EdgeSplitThreshold)
	}
	if cfg.VSA.KeepHoles {
		t.Error("expected keep_holes to be false by default")
	}

	if cfg.Output.StateSuffix != ".vsa" {
		t.Errorf("expected state suffix .vsa, got %s", cfg.Output.StateSuffix)
	}
	if !cfg.Output.WriteMaterials {
		t.Error("expected write_materials to be true by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "isimp.yaml")

	yamlContent := `
vsa:
  num_proxies: 12
  num_iterations: 8
  edge_split_threshold: 0.25
  keep_holes: true

output:
  state_suffix: ".labels"
  write_materials: false

logging:
  level: "debug"
  log_file: "isimp.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.VSA.NumProxies != 12 {
		t.Errorf("expected 12 proxies, got %d", cfg.VSA.NumProxies)
	}
	if cfg.VSA.NumIterations != 8 {
		t.Errorf("expected 8 iterations, got %d", cfg.VSA.NumIterations)
	}
	if cfg.VSA.EdgeSplitThreshold != 0.25 {
		t.Errorf("expected threshold 0.25, got %f", cfg.VSA.EdgeSplitThreshold)
	}
	if !cfg.VSA.KeepHoles {
		t.Error("expected keep_holes to be true")
	}
	if cfg.Output.StateSuffix != ".labels" {
		t.Errorf("expected state suffix .labels, got %s", cfg.Output.StateSuffix)
	}
	if cfg.Output.WriteMaterials {
		t.Error("expected write_materials to be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "isimp.log" {
		t.Errorf("expected log file 'isimp.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "isimp.toml")

	tomlContent := `
[vsa]
num_proxies = 9
edge_split_threshold = 2.0

[logging]
level = "warn"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.VSA.NumProxies != 9 {
		t.Errorf("expected 9 proxies, got %d", cfg.VSA.NumProxies)
	}
	if cfg.VSA.EdgeSplitThreshold != 2.0 {
		t.Errorf("expected threshold 2.0, got %f", cfg.VSA.EdgeSplitThreshold)
	}
	// Untouched keys keep their defaults.
	if cfg.VSA.NumIterations != 20 {
		t.Errorf("expected default 20 iterations, got %d", cfg.VSA.NumIterations)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
vsa:
  num_proxies: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/isimp.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero proxies", func(c *Config) { c.VSA.NumProxies = 0 }},
		{"zero iterations", func(c *Config) { c.VSA.NumIterations = 0 }},
		{"negative threshold", func(c *Config) { c.VSA.EdgeSplitThreshold = -0.5 }},
		{"empty suffix", func(c *Config) { c.Output.StateSuffix = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "isimp.toml")
	if err := os.WriteFile(configPath, []byte("[vsa]\nnum_proxies = 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find isimp.toml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "proxies and iterations flags",
			setup: func() {
				*flagProxies = 10
				*flagIterations = 5
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.VSA.NumProxies != 10 {
					t.Errorf("expected 10 proxies, got %d", cfg.VSA.NumProxies)
				}
				if cfg.VSA.NumIterations != 5 {
					t.Errorf("expected 5 iterations, got %d", cfg.VSA.NumIterations)
				}
			},
			teardown: func() {
				*flagProxies = 0
				*flagIterations = 0
			},
		},
		{
			name:  "threshold flag accepts zero",
			setup: func() { *flagThreshold = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.VSA.EdgeSplitThreshold != 0 {
					t.Errorf("expected threshold 0, got %f", cfg.VSA.EdgeSplitThreshold)
				}
			},
			teardown: func() { *flagThreshold = -1 },
		},
		{
			name:  "keep holes flag",
			setup: func() { *flagKeepHoles = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.VSA.KeepHoles {
					t.Error("expected keep_holes to be true with keep-holes flag")
				}
			},
			teardown: func() { *flagKeepHoles = false },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "run.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "run.log" {
					t.Errorf("expected log file run.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestSelectedFaces(t *testing.T) {
	if got := SelectedFaces(); got != nil {
		t.Errorf("expected no selection by default, got %v", got)
	}
	*flagFace = 7
	defer func() { *flagFace = -1 }()
	got := SelectedFaces()
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected selection [7], got %v", got)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "isimp.yaml")

	yamlContent := `
vsa:
  num_proxies: 16
  num_iterations: 4
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagProxies = 24
	defer func() {
		*flagConfig = ""
		*flagProxies = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Proxies come from the flag, iterations from the file.
	if cfg.VSA.NumProxies != 24 {
		t.Errorf("expected 24 proxies from flag, got %d", cfg.VSA.NumProxies)
	}
	if cfg.VSA.NumIterations != 4 {
		t.Errorf("expected 4 iterations from file, got %d", cfg.VSA.NumIterations)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.VSA.NumProxies = 11
	cfg.VSA.KeepHoles = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.VSA != cfg.VSA {
		t.Errorf("expected %+v after reload, got %+v", cfg.VSA, loaded.VSA)
	}
}
