// Package stats contains summary calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/libsim/internal/model"
)

const sparkChars = " .:-=+*#%@"

// BorrowsPerDay returns the per-day borrow counts of a run.
func BorrowsPerDay(records []model.DayRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		if rec.BorrowedTitle != "" {
			out[i] = 1
		}
	}
	return out
}

// ReturnsPerDay returns the per-day return counts of a run.
func ReturnsPerDay(records []model.DayRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		if rec.ReturnedTitle != "" {
			out[i] = 1
		}
	}
	return out
}

// OutstandingPerDay returns how many books were out at the end of each day.
func OutstandingPerDay(records []model.DayRecord) []float64 {
	out := make([]float64, len(records))
	outstanding := 0.0
	for i, rec := range records {
		if rec.BorrowedTitle != "" {
			outstanding++
		}
		if rec.ReturnedTitle != "" {
			outstanding--
		}
		out[i] = outstanding
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
