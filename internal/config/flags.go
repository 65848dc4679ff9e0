package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagLevel  = flag.Int("level", 0, "Starting level")
	flagSeed   = flag.Uint64("seed", 0, "Random seed (0 picks one)")
	flagFrames = flag.Int("frames", 0, "Stop after this many frames")
	flagBot    = flag.Bool("bot", false, "Run headless with the built-in bot")
	flagFlight = flag.Bool("flight", false, "Enable free flight")
	flagLog    = flag.String("log", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLevel > 0 {
		cfg.Match.Level = *flagLevel
	}
	if *flagSeed != 0 {
		cfg.Match.Seed = *flagSeed
	}
	if *flagFrames > 0 {
		cfg.Match.MaxFrames = *flagFrames
	}
	if *flagBot {
		cfg.Debug.Bot = true
	}
	if *flagFlight {
		cfg.Debug.Flight = true
	}
	if *flagLog != "" {
		cfg.Logging.LogFile = *flagLog
	}
}
