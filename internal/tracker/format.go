package tracker

import "fmt"

// FormatSeconds renders a second count as zero-padded HH:MM:SS. Negative
// values are clamped to zero; the hour field widens past 99 hours instead
// of wrapping.
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
