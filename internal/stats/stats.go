// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/stenotui/internal/model"
)

const sparkChars = " .:-=+*#%@"

// WPM returns the live words-per-minute figure: correct characters over the
// standard five-character word, per elapsed minute, rounded to the nearest
// integer. Zero when no full second has elapsed.
func WPM(correctChars int, elapsed time.Duration) int {
	seconds := int(elapsed.Seconds())
	if seconds <= 0 {
		return 0
	}
	minutes := float64(seconds) / 60.0
	return int(math.Round(float64(correctChars) / 5.0 / minutes))
}

// Accuracy returns the rounded percentage of correct attempts, zero when
// nothing was attempted. The result is always within [0, 100].
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Clock formats an elapsed duration as mm:ss, flooring negative values to
// zero. Minutes keep counting past an hour.
func Clock(elapsed time.Duration) string {
	seconds := int(elapsed.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Live bundles the on-screen figures derived from session counters.
type Live struct {
	WPM      int
	Accuracy int
	Clock    string
}

// ComputeLive derives the footer figures from counters and elapsed time.
func ComputeLive(c model.Counters, elapsed time.Duration) Live {
	return Live{
		WPM:      WPM(c.CorrectChars, elapsed),
		Accuracy: Accuracy(c.CorrectAttempts, c.TotalAttempts),
		Clock:    Clock(elapsed),
	}
}

// SessionMetrics computes WPM and accuracy for a recorded session.
func SessionMetrics(rec model.SessionRecord) (wpm, accuracy float64) {
	if rec.DurationMs > 0 {
		minutes := float64(rec.DurationMs) / 60000.0
		wpm = float64(rec.CorrectChars) / 5.0 / minutes
	}
	if rec.TotalAttempts > 0 {
		accuracy = 100 * float64(rec.CorrectAttempts) / float64(rec.TotalAttempts)
	}
	return wpm, accuracy
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
