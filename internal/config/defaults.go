package config

import "github.com/haskel/monix/internal/colormap"

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    9273,
			PIDFile: "/var/run/monix.pid",
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 10,
				Burst:             20,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Sampling: SamplingConfig{
			IntervalMS:       1000,
			SourceTimeoutMS:  500,
			FailureThreshold: 3,
			CensusEvery:      5,
			RateEpsilonMS:    1,
		},
		Smoothing: SmoothingConfig{
			Alpha:           0.30,
			RedrawThreshold: colormap.DefaultRedrawThreshold,
		},
		Colors: ColorsConfig{
			Load: colormap.LoadGradient(),
			VRAM: colormap.VRAMGradient(),
		},
		GPU: GPUConfig{
			Enabled:     true,
			DeviceIndex: 0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
