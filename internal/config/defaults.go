package config

const (
	defaultDataDir                 = "~/.local/share/docscan"
	defaultLogDir                  = "~/.local/share/docscan/logs"
	defaultRecognizerBinary        = "docrecognize"
	defaultRecognizerEngine        = "offline"
	defaultSingleTimeout           = 45
	defaultBatchTimeout            = 300
	defaultBreakerFailureThreshold = 5
	defaultBreakerCooldown         = 60
	defaultBatchMode               = "smart"
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Recognizer: Recognizer{
			Binary:                  defaultRecognizerBinary,
			Engine:                  defaultRecognizerEngine,
			SingleTimeout:           defaultSingleTimeout,
			BatchTimeout:            defaultBatchTimeout,
			BreakerFailureThreshold: defaultBreakerFailureThreshold,
			BreakerCooldown:         defaultBreakerCooldown,
		},
		Scan: Scan{
			BatchMode: defaultBatchMode,
			AutoSave:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
