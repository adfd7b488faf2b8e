// pkg/model/time.go
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTime coerces a time-of-day value into the canonical zero-padded
// HH:MM:SS form. Accepts HH:MM and single-digit components. Returns an error
// when the value is not a valid 24h time.
func NormalizeTime(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid time %q", value)
	}
	if len(parts) == 2 {
		parts = append(parts, "0")
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("invalid time %q: %w", value, err)
		}
		nums[i] = n
	}

	if nums[0] < 0 || nums[0] > 23 || nums[1] < 0 || nums[1] > 59 || nums[2] < 0 || nums[2] > 59 {
		return "", fmt.Errorf("time %q out of range", value)
	}

	return fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2]), nil
}

// MinutesOfDay converts a HH:MM:SS string into minutes since midnight.
// Seconds are discarded, matching how inter-event intervals are measured.
func MinutesOfDay(value string) (int, error) {
	normalized, err := NormalizeTime(value)
	if err != nil {
		return 0, err
	}

	hours, _ := strconv.Atoi(normalized[0:2])
	minutes, _ := strconv.Atoi(normalized[3:5])
	return hours*60 + minutes, nil
}

func formatWeight(weight float64, known bool) string {
	if !known {
		return ""
	}
	return strconv.FormatFloat(weight, 'f', -1, 64)
}
