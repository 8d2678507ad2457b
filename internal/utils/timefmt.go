package utils

import "fmt"

// ParseTimeOfDay parses "HH:MM:SS" into seconds since local midnight.
// Hours may exceed 24 for runs continuing past midnight, e.g. "25:10:00".
func ParseTimeOfDay(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return h*3600 + m*60 + sec, nil
}

// FormatTimeOfDay renders seconds since local midnight as "HH:MM:SS".
// Values of a day or more keep counting up in the hour field.
func FormatTimeOfDay(secs int) string {
	if secs < 0 {
		return fmt.Sprintf("-%s", FormatTimeOfDay(-secs))
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
