package config

const (
	defaultDataDir               = "~/.local/share/prepai"
	defaultLogDir                = "~/.local/share/prepai/logs"
	defaultAPIBind               = "127.0.0.1:5000"
	defaultGatewayURL            = "http://127.0.0.1:5000/api"
	defaultGatewayTimeout        = 10
	defaultTokenTTLMinutes       = 60
	defaultVideoURL              = "ws://localhost:8000/ws"
	defaultAudioURL              = "ws://localhost:8001/ws/audio"
	defaultJobDescription        = "Software Engineer"
	defaultFrameIntervalMS       = 100
	defaultAudioSliceMS          = 1000
	defaultJPEGQuality           = 50
	defaultFinalReportGraceMS    = 2000
	defaultResumeServiceURL      = "http://localhost:8001/parse-pdf"
	defaultResumeTimeoutSeconds  = 30
	defaultNoiseFloor            = 5
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogMaxSizeMB          = 20
	defaultLogMaxBackups         = 5
	defaultLogMaxAgeDays         = 30
	defaultAudioConfidenceOffset = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Gateway: Gateway{
			URL:                   defaultGatewayURL,
			RequestTimeout:        defaultGatewayTimeout,
			TokenTTLMinutes:       defaultTokenTTLMinutes,
			AudioConfidenceOffset: defaultAudioConfidenceOffset,
			AllowGuestSaves:       true,
		},
		Streams: Streams{
			VideoURL:           defaultVideoURL,
			AudioURL:           defaultAudioURL,
			JobDescription:     defaultJobDescription,
			FrameIntervalMS:    defaultFrameIntervalMS,
			AudioSliceMS:       defaultAudioSliceMS,
			JPEGQuality:        defaultJPEGQuality,
			FinalReportGraceMS: defaultFinalReportGraceMS,
		},
		Resume: Resume{
			ServiceURL:     defaultResumeServiceURL,
			LocalFallback:  true,
			TimeoutSeconds: defaultResumeTimeoutSeconds,
		},
		Scoring: Scoring{
			NoiseFloor: defaultNoiseFloor,
		},
		Notifications: Notifications{
			RequestTimeout:   defaultNotifyRequestTimeout,
			IdentityFallback: true,
			PersistFailure:   true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
