package config

import (
	"flag"
	"time"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagMute    = flag.Bool("mute", false, "Disable sound effects")
	flagFPS     = flag.Int("fps", 0, "Tick rate override (ticks per second)")
	flagDisplay = flag.Int("display", -1, "Display index to show the pet on")
	flagGrant   = flag.Bool("grant", false, "Grant overlay permission without asking")
	flagLogFile = flag.String("log-file", "", "Write logs to this file as well")

	flagSnapshot = flag.String("snapshot", "", "Write every pet frame as PNG into this directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SnapshotDir returns the frame snapshot directory if provided via --snapshot.
func SnapshotDir() string {
	return *flagSnapshot
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMute {
		cfg.Audio.Enabled = false
	}
	if *flagFPS > 0 {
		cfg.Overlay.TickInterval = time.Second / time.Duration(*flagFPS)
	}
	if *flagDisplay >= 0 {
		cfg.Overlay.DisplayIndex = *flagDisplay
	}
	if *flagGrant {
		cfg.Overlay.PermissionGranted = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
