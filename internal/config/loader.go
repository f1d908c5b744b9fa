package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML overlay. Absent keys leave the env-derived
// value untouched, so the file only needs to name what it overrides.
type fileConfig struct {
	Port     string `yaml:"port"`
	Provider string `yaml:"provider"`
	Poll     struct {
		PeakInterval    string `yaml:"peak_interval"`
		OffPeakInterval string `yaml:"offpeak_interval"`
		Timezone        string `yaml:"timezone"`
	} `yaml:"poll"`
	NBA struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"nba"`
	Cache struct {
		ScoreTTL    string `yaml:"score_ttl"`
		BoxScoreTTL string `yaml:"boxscore_ttl"`
	} `yaml:"cache"`
	Channel struct {
		Backend     string `yaml:"backend"`
		DatabaseURL string `yaml:"database_url"`
		DedupWindow string `yaml:"dedup_window"`
	} `yaml:"channel"`
	Consumer struct {
		Enabled       *bool  `yaml:"enabled"`
		BatchSize     int    `yaml:"batch_size"`
		DrainInterval string `yaml:"drain_interval"`
	} `yaml:"consumer"`
	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Port    string `yaml:"port"`
	} `yaml:"metrics"`
}

// applyFile reads a YAML config file, expands ${VAR} references, and lays
// its values over cfg.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	setString(&cfg.Port, fc.Port)
	setString(&cfg.Provider, fc.Provider)
	setDuration(&cfg.Poll.PeakInterval, fc.Poll.PeakInterval)
	setDuration(&cfg.Poll.OffPeakInterval, fc.Poll.OffPeakInterval)
	setString(&cfg.Poll.Timezone, fc.Poll.Timezone)
	setString(&cfg.NBA.BaseURL, fc.NBA.BaseURL)
	setDuration(&cfg.NBA.Timeout, fc.NBA.Timeout)
	setDuration(&cfg.Cache.ScoreTTL, fc.Cache.ScoreTTL)
	setDuration(&cfg.Cache.BoxScoreTTL, fc.Cache.BoxScoreTTL)
	setString(&cfg.Channel.Backend, fc.Channel.Backend)
	setString(&cfg.Channel.DatabaseURL, fc.Channel.DatabaseURL)
	setDuration(&cfg.Channel.DedupWindow, fc.Channel.DedupWindow)
	setBool(&cfg.Consumer.Enabled, fc.Consumer.Enabled)
	if fc.Consumer.BatchSize > 0 {
		cfg.Consumer.BatchSize = fc.Consumer.BatchSize
	}
	setDuration(&cfg.Consumer.DrainInterval, fc.Consumer.DrainInterval)
	setBool(&cfg.Metrics.Enabled, fc.Metrics.Enabled)
	setString(&cfg.Metrics.Port, fc.Metrics.Port)

	return nil
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func setDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		*dst = parsed
	}
}

func setBool(dst *bool, val *bool) {
	if val != nil {
		*dst = *val
	}
}
