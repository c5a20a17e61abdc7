// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/stenotui/internal/model"
	"github.com/verte-zerg/stenotui/internal/store"
)

const (
	terminalWidthBackup = 80
	minSparkWidth       = 10
	sparkLegendWidth    = 32
	recentSessionRows   = 10
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
}

// BuildReport loads and prepares session history for rendering. Sessions come
// back oldest first so trend curves read left to right.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return Report{Sessions: sessions}, nil
}

// RenderReport prints the summary, trend sparklines, and a recent-sessions
// table.
func RenderReport(w io.Writer, rep Report, window int) error {
	if len(rep.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if err := renderSummary(w, rep.Sessions); err != nil {
		return err
	}
	if err := renderTrend(w, rep.Sessions, window); err != nil {
		return err
	}
	return renderRecent(w, rep.Sessions)
}

// ModeLabel is the short mode name used in reports.
func ModeLabel(m model.Mode) string {
	switch m {
	case model.ModeBankRandom:
		return "bank"
	case model.ModeQuoteSequential:
		return "quote"
	}
	return string(m)
}

func renderSummary(w io.Writer, sessions []model.SessionRecord) error {
	var totalWPM, totalAcc, bestWPM float64
	bestStreak := 0
	var practice time.Duration
	for _, s := range sessions {
		wpm, acc := SessionMetrics(s)
		totalWPM += wpm
		totalAcc += acc
		if wpm > bestWPM {
			bestWPM = wpm
		}
		if s.BestStreak > bestStreak {
			bestStreak = s.BestStreak
		}
		practice += time.Duration(s.DurationMs) * time.Millisecond
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", totalAcc/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Streak: %d\n", bestStreak); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Practice Time: %s\n", Clock(practice)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderTrend(w io.Writer, sessions []model.SessionRecord, window int) error {
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i], accs[i] = SessionMetrics(s)
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	if _, err := fmt.Fprintln(w, "Trend"); err != nil {
		return err
	}
	if err := renderSpark(w, "WPM", wpms); err != nil {
		return err
	}
	if err := renderSpark(w, "Accuracy", accs); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// renderSpark prints one named sparkline, keeping the tail that fits the
// terminal next to the min/max legend.
func renderSpark(w io.Writer, name string, values []float64) error {
	width := terminalWidth() - sparkLegendWidth
	if width < minSparkWidth {
		width = minSparkWidth
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	_, err := fmt.Fprintf(w, "%-8s %s  min %.1f  max %.1f\n", name, Sparkline(values), minVal, maxVal)
	return err
}

func renderRecent(w io.Writer, sessions []model.SessionRecord) error {
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	tail := sessions
	if len(tail) > recentSessionRows {
		tail = tail[len(tail)-recentSessionRows:]
	}
	headers := []string{"Ended", "Mode", "WPM", "Acc", "Correct", "Best", "Time"}
	rows := make([][]string, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		s := tail[i]
		wpm, acc := SessionMetrics(s)
		rows = append(rows, []string{
			s.EndedAt.Format("2006-01-02 15:04"),
			ModeLabel(s.Mode),
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.0f%%", acc),
			fmt.Sprintf("%d/%d", s.CorrectAttempts, s.TotalAttempts),
			fmt.Sprintf("%d", s.BestStreak),
			Clock(time.Duration(s.DurationMs) * time.Millisecond),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatColumns(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
