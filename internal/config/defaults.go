package config

const (
	defaultKind           = "any"
	defaultTickIntervalMS = 250
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Library: Library{
			Kind:      defaultKind,
			Recursive: false,
		},
		Subtitles: Subtitles{
			DropInvertedCues: false,
		},
		Player: Player{
			TickIntervalMS: defaultTickIntervalMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
	}
}
