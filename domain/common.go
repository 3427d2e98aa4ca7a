package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedQueryParam     = "invalid query parameter"

	ErrParseUUID = errors.New("failed to parse UUID")
)

// AlertConfig is the immutable alert configuration shared by the pantry store
// and the alert buffer. Units are matched verbatim; unknown units never raise
// a low-stock alert.
type AlertConfig struct {
	LowStockThresholds map[string]float64
	ExpiryWindowDays   int
	BufferCapacity     int
}

const (
	DefaultExpiryWindowDays = 3
	DefaultBufferCapacity   = 200
)

// DefaultLowStockThresholds returns a fresh copy of the built-in per-unit floors.
func DefaultLowStockThresholds() map[string]float64 {
	return map[string]float64{
		"g":   100,
		"ml":  100,
		"pcs": 1,
	}
}

// Threshold reports the low-stock floor for unit. ok is false for unconfigured units.
func (c AlertConfig) Threshold(unit string) (float64, bool) {
	t, ok := c.LowStockThresholds[unit]
	return t, ok
}
