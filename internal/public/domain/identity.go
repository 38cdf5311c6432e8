package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	deviceIDPrefix    = "d_"
	maxDeviceIDLength = 64
	deviceIDRandSpace = 1_000_000_000
)

// NewDeviceID formats an identifier from a timestamp and a random suffix.
func NewDeviceID(now time.Time, suffix int) string {
	return fmt.Sprintf("%s%d_%d", deviceIDPrefix, now.UnixMilli(), suffix)
}

// GenerateDeviceID returns a fresh opaque device identifier.
func GenerateDeviceID(now time.Time) string {
	return NewDeviceID(now, rand.IntN(deviceIDRandSpace))
}

// ValidDeviceID reports whether value looks like an identifier we issued.
func ValidDeviceID(value string) bool {
	if !strings.HasPrefix(value, deviceIDPrefix) || len(value) > maxDeviceIDLength {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(value, deviceIDPrefix), "_")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
