package config

import "time"

const (
	envPort       = "PORT"
	envProvider   = "PROVIDER"
	envConfigFile = "CONFIG_FILE"

	envPeakInterval    = "POLL_PEAK_INTERVAL"
	envOffPeakInterval = "POLL_OFFPEAK_INTERVAL"
	envPollTimezone    = "POLL_TIMEZONE"

	envNBABaseURL = "NBA_BASE_URL"
	envNBATimeout = "NBA_TIMEOUT"

	envScoreTTL    = "CACHE_SCORE_TTL"
	envBoxScoreTTL = "CACHE_BOXSCORE_TTL"

	envChannelBackend = "CHANNEL_BACKEND"
	envDatabaseURL    = "DATABASE_URL"
	envDedupWindow    = "CHANNEL_DEDUP_WINDOW"

	envConsumerEnabled  = "CONSUMER_ENABLED"
	envConsumerBatch    = "CONSUMER_BATCH_SIZE"
	envConsumerInterval = "CONSUMER_DRAIN_INTERVAL"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort     = "4000"
	defaultProvider = "fixture"

	// Evening games drive the faster cadence; see timeutil.IsPeakHour.
	defaultPeakInterval    = 30 * time.Second
	defaultOffPeakInterval = 60 * time.Second

	defaultNBABaseURL = "https://cdn.nba.com/static/json/liveData"
	// Bounded so a hung upstream cannot stall the polling loop.
	defaultNBATimeout = 10 * time.Second

	defaultScoreTTL    = 60 * time.Second
	defaultBoxScoreTTL = 300 * time.Second

	defaultChannelBackend = "memory"
	defaultDedupWindow    = 10 * time.Minute

	defaultConsumerBatch    = 50
	defaultConsumerInterval = 15 * time.Second

	defaultMetricsPort = "9090"
)
