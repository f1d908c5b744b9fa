package config

// Config holds runtime configuration for the service.
type Config struct {
	Port     string
	Provider string
	Poll     PollConfig
	NBA      NBAConfig
	Cache    CacheConfig
	Channel  ChannelConfig
	Consumer ConsumerConfig
	Metrics  MetricsConfig
}

// Load reads configuration from environment variables with sensible
// defaults, then applies the optional CONFIG_FILE overlay.
func Load() (Config, error) {
	cfg := Config{
		Port:     envOrDefault(envPort, defaultPort),
		Provider: envOrDefault(envProvider, defaultProvider),
		Poll:     loadPoll(),
		NBA:      loadNBA(),
		Cache:    loadCache(),
		Channel:  loadChannel(),
		Consumer: loadConsumer(),
		Metrics:  loadMetrics(),
	}

	if path := envOrDefault(envConfigFile, ""); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
