// Package config holds the run configuration for the nuveto CLI:
// detector geometry, default models, data file locations and cache
// capacities.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDepth     = 1950.0
	DefaultElevation = 2400.0
	DefaultPmodel    = "H3a"
	DefaultHadr      = "SIBYLL2.3c"
	DefaultPrpl      = "ice_analytic"
	DefaultAccuracy  = 3
	DefaultCacheSize = 1024
)

type Config struct {
	Detector DetectorConfig `yaml:"detector"`
	Models   ModelsConfig   `yaml:"models"`
	Data     DataConfig     `yaml:"data"`
	Cache    CacheConfig    `yaml:"cache"`
}

type DetectorConfig struct {
	Depth     float64 `yaml:"depth"`     // m below surface
	Elevation float64 `yaml:"elevation"` // m above sea level
}

type ModelsConfig struct {
	Pmodel   string `yaml:"pmodel"`
	Hadr     string `yaml:"hadr"`
	Prpl     string `yaml:"prpl"`
	Accuracy int    `yaml:"accuracy"`
}

type DataConfig struct {
	Bundle     string   `yaml:"bundle"`      // cascade solution bundle (JSON)
	PromptHist string   `yaml:"prompt_hist"` // prompt decay histogram (JSON)
	PrplTables []string `yaml:"prpl_tables"` // extra reach-probability tables
}

type CacheConfig struct {
	NoMu      int `yaml:"nomu"`
	Solutions int `yaml:"solutions"`
}

func DefaultConfig() *Config {
	return &Config{
		Detector: DetectorConfig{
			Depth:     DefaultDepth,
			Elevation: DefaultElevation,
		},
		Models: ModelsConfig{
			Pmodel:   DefaultPmodel,
			Hadr:     DefaultHadr,
			Prpl:     DefaultPrpl,
			Accuracy: DefaultAccuracy,
		},
		Cache: CacheConfig{
			NoMu:      DefaultCacheSize,
			Solutions: DefaultCacheSize,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
