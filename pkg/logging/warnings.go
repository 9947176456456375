package logging

import (
	"github.com/arthur-debert/buildenv/pkg/types"
	"github.com/rs/zerolog"
)

// WarningCollector is a types.Reporter that logs every warning and keeps it
// for the caller to print once the run is over.
type WarningCollector struct {
	logger   zerolog.Logger
	warnings []types.Warning
}

// NewWarningCollector creates a collector logging through logger
func NewWarningCollector(logger zerolog.Logger) *WarningCollector {
	return &WarningCollector{logger: logger}
}

// Warn records a warning
func (c *WarningCollector) Warn(w types.Warning) {
	c.logger.Debug().
		Str("kind", string(w.Kind)).
		Strs("paths", w.Paths).
		Msg(w.Message)
	c.warnings = append(c.warnings, w)
}

// Warnings returns the recorded warnings in report order
func (c *WarningCollector) Warnings() []types.Warning {
	return c.warnings
}

// Count returns how many warnings of the given kind were recorded
func (c *WarningCollector) Count(kind types.WarningKind) int {
	n := 0
	for _, w := range c.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
