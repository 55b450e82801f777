package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule accepts standard five-field cron expressions.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone accepts IANA names known to time.LoadLocation.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

type ordered interface {
	~int | ~int64 | ~float64
}

func validateRange[T ordered](kind string, value, min, max T) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if value < min {
		return fmt.Errorf("%s %v is below minimum %v", kind, value, min)
	}
	if value > max {
		return fmt.Errorf("%s %v exceeds maximum %v", kind, value, max)
	}
	return nil
}

// ValidateDuration checks min <= duration <= max.
func ValidateDuration(duration, min, max time.Duration) error {
	return validateRange("duration", duration, min, max)
}

func ValidateIntRange(value, min, max int) error {
	return validateRange("value", value, min, max)
}

func ValidateInt64Range(value, min, max int64) error {
	return validateRange("value", value, min, max)
}

func ValidateFloatRange(value, min, max float64) error {
	return validateRange("value", value, min, max)
}

func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}
