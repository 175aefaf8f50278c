package main

import (
	"os"
	"strconv"

	imglink "github.com/anatolykoptev/go-imglink"
)

// options holds the command configuration: environment defaults overridden
// by flags.
type options struct {
	HashSize   int
	Threshold  float64
	Trim       bool
	AutoOrient bool
	Workers    int
	NoOpen     bool
	Verbose    bool
	AddLink    string
	ScanDir    string
	WatchDir   string
}

func loadOptions() options {
	return options{
		HashSize:   getEnvInt("IMGLINK_HASH_SIZE", imglink.DefaultHashSize),
		Threshold:  getEnvFloat("IMGLINK_THRESHOLD", imglink.DefaultThreshold),
		Trim:       getEnvBool("IMGLINK_TRIM", true),
		AutoOrient: getEnvBool("IMGLINK_AUTO_ORIENT", false),
		Workers:    getEnvInt("IMGLINK_WORKERS", 0),
	}
}

// config converts options to a library Config.
func (o options) config() *imglink.Config {
	return &imglink.Config{
		HashSize:     o.HashSize,
		Threshold:    o.Threshold,
		ThresholdSet: true,
		RemoveBorder: o.Trim,
		AutoOrient:   o.AutoOrient,
		Workers:      o.Workers,
	}
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true" || v == "1"
	}
	return def
}
