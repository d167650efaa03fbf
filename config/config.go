package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the send engine settings. All fields have working defaults
// so a missing or partial config.yaml is fine.
type Config struct {
	PreferredMSS    int  `yaml:"preferredMSS"`    // maximum segment payload size in bytes
	MaxSegments     int  `yaml:"maxSegments"`     // outstanding segment capacity per connection
	MaxRetries      int  `yaml:"maxRetries"`      // per-segment retransmission ceiling
	RtoMin          int  `yaml:"rtoMin"`          // lower RTO bound in milliseconds
	RtoMax          int  `yaml:"rtoMax"`          // upper RTO bound in milliseconds
	InitCwnd        int  `yaml:"initCwnd"`        // initial congestion window in segments
	InitSsthresh    int  `yaml:"initSsthresh"`    // initial slow start threshold in bytes
	InitialSRTT     int  `yaml:"initialSRTT"`     // smoothed RTT before the first sample, milliseconds
	InitialRTTVar   int  `yaml:"initialRTTVar"`   // RTT variance before the first sample, milliseconds
	PayloadPoolSize int  `yaml:"payloadPoolSize"` // number of payload chunks in the ring pool
	PoolDebug       bool `yaml:"poolDebug"`       // ring pool debug setting
	TraceEnabled    bool `yaml:"traceEnabled"`    // record transmitted segment headers
}

func DefaultConfig() *Config {
	return &Config{
		PreferredMSS:    1460,
		MaxSegments:     32,
		MaxRetries:      5,
		RtoMin:          1000,
		RtoMax:          120000,
		InitCwnd:        10,
		InitSsthresh:    65535,
		InitialSRTT:     100,
		InitialRTTVar:   50,
		PayloadPoolSize: 2000,
		PoolDebug:       false,
		TraceEnabled:    false,
	}
}

// LoadConfig reads a yaml config file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	conf := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, err
	}

	return conf, nil
}
