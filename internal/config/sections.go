package config

import "time"

// PollConfig controls the adaptive polling cadence.
type PollConfig struct {
	PeakInterval    time.Duration
	OffPeakInterval time.Duration
	// Timezone resolves the local clock used for peak-hour selection.
	// Empty means the process-local zone.
	Timezone string
}

// NBAConfig controls how we talk to the NBA live-data CDN.
type NBAConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CacheConfig holds the per-namespace TTLs.
type CacheConfig struct {
	ScoreTTL    time.Duration
	BoxScoreTTL time.Duration
}

// ChannelConfig selects and configures the durable channel backend.
type ChannelConfig struct {
	// Backend is "memory" or "postgres".
	Backend     string
	DatabaseURL string
	DedupWindow time.Duration
}

// ConsumerConfig controls the channel-draining worker.
type ConsumerConfig struct {
	Enabled       bool
	BatchSize     int
	DrainInterval time.Duration
}

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadPoll() PollConfig {
	return PollConfig{
		PeakInterval:    durationEnvOrDefault(envPeakInterval, defaultPeakInterval),
		OffPeakInterval: durationEnvOrDefault(envOffPeakInterval, defaultOffPeakInterval),
		Timezone:        envOrDefault(envPollTimezone, ""),
	}
}

func loadNBA() NBAConfig {
	return NBAConfig{
		BaseURL: envOrDefault(envNBABaseURL, defaultNBABaseURL),
		Timeout: durationEnvOrDefault(envNBATimeout, defaultNBATimeout),
	}
}

func loadCache() CacheConfig {
	return CacheConfig{
		ScoreTTL:    durationEnvOrDefault(envScoreTTL, defaultScoreTTL),
		BoxScoreTTL: durationEnvOrDefault(envBoxScoreTTL, defaultBoxScoreTTL),
	}
}

func loadChannel() ChannelConfig {
	return ChannelConfig{
		Backend:     envOrDefault(envChannelBackend, defaultChannelBackend),
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
		DedupWindow: durationEnvOrDefault(envDedupWindow, defaultDedupWindow),
	}
}

func loadConsumer() ConsumerConfig {
	return ConsumerConfig{
		Enabled:       boolEnvOrDefault(envConsumerEnabled, true),
		BatchSize:     intEnvOrDefault(envConsumerBatch, defaultConsumerBatch),
		DrainInterval: durationEnvOrDefault(envConsumerInterval, defaultConsumerInterval),
	}
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		ServiceName:  envOrDefault(envOtelService, "nba-live-sync"),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}
