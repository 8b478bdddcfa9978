package config

const (
	defaultPidFile          = "~/.local/share/drover/drover.pid"
	defaultWorkDir          = "/"
	defaultLogDir           = "~/.local/share/drover/logs"
	defaultHistoryPath      = "~/.local/share/drover/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultStopGraceSeconds = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Daemon: Daemon{
			PidFile: defaultPidFile,
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Task: Task{
			StopGraceSeconds: defaultStopGraceSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
