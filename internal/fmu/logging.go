package fmu

import (
	"context"
	"log/slog"
)

// Log categories understood by the component.
const (
	LogEvents                = "logEvents"
	LogSingularLinearSystems = "logSingularLinearSystems"
	LogNonlinearSystems      = "logNonlinearSystems"
	LogStatusWarning         = "logStatusWarning"
	LogStatusError           = "logStatusError"
	LogStatusPending         = "logStatusPending"
	LogDynamicStateSelection = "logDynamicStateSelection"
	LogStatusDiscard         = "logStatusDiscard"
	LogStatusFatal           = "logStatusFatal"
	LogAll                   = "logAll"
)

// Categories lists every log category in model description order.
var Categories = []string{
	LogEvents,
	LogSingularLinearSystems,
	LogNonlinearSystems,
	LogStatusWarning,
	LogStatusError,
	LogStatusPending,
	LogDynamicStateSelection,
	LogStatusDiscard,
	LogStatusFatal,
	LogAll,
}

// DefaultCategories are enabled when a component is created.
var DefaultCategories = []string{
	LogStatusWarning,
	LogStatusDiscard,
	LogStatusError,
	LogStatusFatal,
	LogStatusPending,
}

func levelFor(s Status) slog.Level {
	switch s {
	case StatusOK:
		return slog.LevelDebug
	case StatusWarning, StatusDiscard, StatusPending:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// SetDebugLogging turns logging on or off and, when categories are given,
// replaces the enabled set. Unknown categories are reported as a warning.
func (c *Component) SetDebugLogging(on bool, categories ...string) Status {
	c.loggingOn = on
	if len(categories) == 0 {
		return StatusOK
	}
	status := StatusOK
	enabled := make(map[string]bool, len(categories))
	for _, cat := range categories {
		if !knownCategory(cat) {
			c.logger.Warn("unknown log category", "category", cat)
			status = StatusWarning
			continue
		}
		enabled[cat] = true
	}
	c.categories = enabled
	return status
}

// Log emits msg when logging is on and category is enabled. The logAll
// category enables every message.
func (c *Component) Log(msg string, status Status, category string) {
	if !c.loggingOn {
		return
	}
	if !c.categories[category] && !c.categories[LogAll] {
		return
	}
	c.logger.Log(context.Background(), levelFor(status), msg,
		"instance", c.instanceName, "status", status.String(), "category", category)
}

func knownCategory(cat string) bool {
	for _, known := range Categories {
		if known == cat {
			return true
		}
	}
	return false
}
