package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Also write logs to this file")
	flagProxies    = flag.Int("proxies", 0, "Number of proxies (regions) for flood")
	flagIterations = flag.Int("iterations", 0, "Number of Lloyd iterations")
	flagThreshold  = flag.Float64("threshold", -1, "Edge split threshold for remesh")
	flagKeepHoles  = flag.Bool("keep-holes", false, "Keep hole loops when remeshing")
	flagFace       = flag.Int("face", -1, "Selected face for add/delete")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SelectedFaces returns the face selection given on the command line.
func SelectedFaces() []int {
	if *flagFace < 0 {
		return nil
	}
	return []int{*flagFace}
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagProxies > 0 {
		cfg.VSA.NumProxies = *flagProxies
	}
	if *flagIterations > 0 {
		cfg.VSA.NumIterations = *flagIterations
	}
	if *flagThreshold >= 0 {
		cfg.VSA.EdgeSplitThreshold = *flagThreshold
	}
	if *flagKeepHoles {
		cfg.VSA.KeepHoles = true
	}
}
