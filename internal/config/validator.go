package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/parsort/internal/util"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sort.levels")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Clamp lowers levels and workers that exceed their maximum and returns a
// warning for each adjustment. Values below 1 are left for Validate.
func (c *Config) Clamp() []string {
	var warnings []string

	if c.Sort.Levels > MaxLevels {
		warnings = append(warnings, fmt.Sprintf("sort.levels %d exceeds %d, using %d", c.Sort.Levels, MaxLevels, MaxLevels))
		c.Sort.Levels = util.Clamp(c.Sort.Levels, 1, MaxLevels)
	}
	if c.Sort.Workers > MaxWorkers {
		warnings = append(warnings, fmt.Sprintf("sort.workers %d exceeds %d, using %d", c.Sort.Workers, MaxWorkers, MaxWorkers))
		c.Sort.Workers = util.Clamp(c.Sort.Workers, 1, MaxWorkers)
	}
	return warnings
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSort()...)
	errors = append(errors, c.validateHeartbeat()...)
	errors = append(errors, c.validateRuntime()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateRender()...)

	return errors
}

// validateSort validates the SortConfig
func (c *Config) validateSort() []ValidationError {
	var errors []ValidationError

	if c.Sort.Levels < 1 || c.Sort.Levels > MaxLevels {
		errors = append(errors, ValidationError{
			Field:   "sort.levels",
			Value:   c.Sort.Levels,
			Message: fmt.Sprintf("must be between 1 and %d", MaxLevels),
		})
	}
	if c.Sort.Workers < 1 || c.Sort.Workers > MaxWorkers {
		errors = append(errors, ValidationError{
			Field:   "sort.workers",
			Value:   c.Sort.Workers,
			Message: fmt.Sprintf("must be between 1 and %d", MaxWorkers),
		})
	}
	if c.Sort.Delay < 0 {
		errors = append(errors, ValidationError{
			Field:   "sort.delay",
			Value:   c.Sort.Delay,
			Message: "must be non-negative",
		})
	}
	if c.Sort.QueueCapacity < 1 {
		errors = append(errors, ValidationError{
			Field:   "sort.queue_capacity",
			Value:   c.Sort.QueueCapacity,
			Message: "must be positive",
		})
	}

	return errors
}

// validateHeartbeat validates the HeartbeatConfig
func (c *Config) validateHeartbeat() []ValidationError {
	if c.Heartbeat.Interval <= 0 {
		return []ValidationError{{
			Field:   "heartbeat.interval",
			Value:   c.Heartbeat.Interval,
			Message: "must be positive",
		}}
	}
	return nil
}

// validateRuntime validates the RuntimeConfig
func (c *Config) validateRuntime() []ValidationError {
	var errors []ValidationError

	// Resource names become file names
	if strings.ContainsAny(c.Runtime.Name, `/\`) || c.Runtime.Name == "." || c.Runtime.Name == ".." {
		errors = append(errors, ValidationError{
			Field:   "runtime.name",
			Value:   c.Runtime.Name,
			Message: "must be a plain file name",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateRender validates the RenderConfig
func (c *Config) validateRender() []ValidationError {
	if c.Render.Width < 0 {
		return []ValidationError{{
			Field:   "render.width",
			Value:   c.Render.Width,
			Message: "must be non-negative",
		}}
	}
	return nil
}
