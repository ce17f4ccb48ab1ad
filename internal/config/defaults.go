package config

const (
	defaultPidFile          = "~/.local/share/burrow/burrow.pid"
	defaultWorkDir          = "/"
	defaultLogDir           = "~/.local/share/burrow/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30

	// DefaultUmask allows the owner everything, strips group write, and
	// strips all access for others.
	DefaultUmask = 0o027

	// DefaultFDFallbackLimit bounds the descriptor sweep when the process
	// reports unlimited rlimits.
	DefaultFDFallbackLimit = 1024

	defaultStartTimeoutSeconds = 30
	defaultStopGraceSeconds    = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PidFile: defaultPidFile,
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Process: Process{
			Umask:           DefaultUmask,
			FDFallbackLimit: DefaultFDFallbackLimit,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Control: Control{
			StartTimeoutSeconds: defaultStartTimeoutSeconds,
			StopGraceSeconds:    defaultStopGraceSeconds,
		},
	}
}
