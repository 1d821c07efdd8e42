package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them into durations.
type TimeConfig interface {
	// GetSecond returns the value for key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute returns the value for key as a number of minutes.
	GetMinute(key string) time.Duration
	// GetDay returns the value for key as a number of days (24h).
	GetDay(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys yield the zero value unless a default was registered.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetArray splits a "<a>,<b>,..." value into trimmed, non-empty elements.
	GetArray(key string) []string

	// GetMap parses a "<k1>:<v1>,<k2>:<v2>" value.
	GetMap(key string) map[string]string
}
