package report

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// WorkingHours returns the elapsed time between two wall-clock "HH:mm"
// values as a decimal-hours string with two fraction digits.
// An end before the start is read as crossing midnight, not as an error.
// Empty or unparseable input yields "0.00".
func WorkingHours(start, end string) string {
	if start == "" || end == "" {
		return "0.00"
	}
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return "0.00"
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return "0.00"
	}
	minutes := int(e.Sub(s).Minutes())
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%.2f", float64(minutes)/60)
}
