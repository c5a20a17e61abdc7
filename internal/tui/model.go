// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/stenotui/internal/dict"
	"github.com/verte-zerg/stenotui/internal/model"
	"github.com/verte-zerg/stenotui/internal/session"
	statsPkg "github.com/verte-zerg/stenotui/internal/stats"
	"github.com/verte-zerg/stenotui/internal/store"
)

const (
	statsTickInterval = 250 * time.Millisecond

	minInputWidth   = 10
	minSourceWidth  = 20
	sourceHeight    = 6
	overlayMaxWidth = 80
)

const (
	feedbackPrompt    = "Type the word/phrase…"
	feedbackProgress  = "…"
	feedbackIncorrect = "✗ Incorrect"
	feedbackSkipped   = "Skipped."
	feedbackQuoteEnd  = "Already at end of quote list."
	feedbackQuoteDone = "Quote complete 🎉  (ctrl+r to run again)"
	feedbackQuoteMode = "Quote mode: type the line exactly."
	feedbackBankMode  = "Word bank mode: random."
	feedbackNeedBank  = "Load a word bank first."
)

const helpText = "Submit: enter  Clear: esc  Skip: ctrl+n  Mode: ctrl+t  Restart: ctrl+r  Quote text: ctrl+p  Reset: ctrl+x  Quit: ctrl+c"

// tone selects the feedback line color.
type tone int

const (
	toneMuted tone = iota
	toneGood
	toneBad
)

type tickMsg time.Time

// Model implements the Bubble Tea practice UI.
type Model struct {
	cfg   model.Config
	sess  *session.Session
	store *store.Store
	dict  *dict.Dictionary

	input     textinput.Model
	source    textarea.Model
	pasteMode bool

	feedback     string
	feedbackTone tone

	width  int
	height int
}

// NewModel constructs a practice TUI model around an initialized session.
func NewModel(cfg model.Config, sess *session.Session, st *store.Store, d *dict.Dictionary) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	input.Focus()

	source := textarea.New()
	source.Placeholder = "Paste quote text here, one quote per line."
	source.CharLimit = 0
	source.ShowLineNumbers = false

	m := &Model{
		cfg:    cfg,
		sess:   sess,
		store:  st,
		dict:   d,
		input:  input,
		source: source,
	}
	m.setFeedback(feedbackPrompt, toneMuted)
	if _, ok := sess.Target(); ok {
		if sess.Mode() == model.ModeQuoteSequential {
			m.setFeedback(feedbackQuoteMode, toneMuted)
		} else {
			m.setFeedback(feedbackBankMode, toneMuted)
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, statsTick())
}

// statsTick drives the periodic footer refresh so the clock and WPM move
// between keystrokes.
func statsTick() tea.Cmd {
	return tea.Tick(statsTickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tickMsg:
		return m, statsTick()
	case tea.KeyMsg:
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			m.applyOutcome(m.sess.Submit())
			return m, nil
		case tea.KeyEsc:
			m.input.SetValue("")
			m.applyOutcome(m.sess.OnInputChange(""))
			return m, nil
		case tea.KeyCtrlN:
			m.applySkip(m.sess.Skip())
			return m, nil
		case tea.KeyCtrlT:
			m.toggleMode()
			return m, nil
		case tea.KeyCtrlR:
			m.restartQuote()
			return m, nil
		case tea.KeyCtrlX:
			m.resetSession()
			return m, nil
		case tea.KeyCtrlP:
			return m, m.openPaste()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.applyOutcome(m.sess.OnInputChange(m.input.Value()))
		return m, cmd
	}
	// Non-key messages keep the focused widget's cursor blinking.
	if m.pasteMode {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.pasteMode = false
		m.source.Blur()
		return m, nil
	case tea.KeyCtrlD:
		m.sess.SetQuoteText(m.source.Value())
		m.pasteMode = false
		m.source.Blur()
		if m.sess.UseQuoteMode() {
			m.input.SetValue("")
			m.setFeedback(feedbackQuoteMode, toneMuted)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.source, cmd = m.source.Update(msg)
	return m, cmd
}

func (m *Model) openPaste() tea.Cmd {
	m.pasteMode = true
	m.source.SetValue(m.sess.QuoteText())
	return m.source.Focus()
}

// applyOutcome translates a session outcome into the feedback line, clearing
// the visible buffer whenever the session advanced past the target.
func (m *Model) applyOutcome(out session.Outcome) {
	switch out {
	case session.OutcomePrompt:
		m.setFeedback(feedbackPrompt, toneMuted)
	case session.OutcomeProgress:
		m.setFeedback(feedbackProgress, toneMuted)
	case session.OutcomeIncorrect:
		m.setFeedback(feedbackIncorrect, toneBad)
	case session.OutcomeCorrect:
		m.input.SetValue("")
		m.setFeedback(feedbackPrompt, toneMuted)
	case session.OutcomeQuoteComplete:
		m.setFeedback(feedbackQuoteDone, toneGood)
	}
}

func (m *Model) applySkip(res session.SkipResult) {
	switch res {
	case session.SkipAdvanced:
		m.input.SetValue("")
		m.setFeedback(feedbackSkipped, toneBad)
	case session.SkipAtQuoteEnd:
		m.setFeedback(feedbackQuoteEnd, toneMuted)
	}
}

func (m *Model) toggleMode() {
	if m.sess.Mode() == model.ModeQuoteSequential {
		if !m.sess.UseBankMode() {
			m.setFeedback(feedbackNeedBank, toneBad)
			return
		}
		m.input.SetValue("")
		m.setFeedback(feedbackBankMode, toneMuted)
		return
	}
	m.restartQuote()
}

func (m *Model) restartQuote() {
	if !m.sess.UseQuoteMode() {
		// No tokens; the hint line explains how to paste some.
		m.setFeedback(feedbackPrompt, toneMuted)
		return
	}
	m.input.SetValue("")
	m.setFeedback(feedbackQuoteMode, toneMuted)
}

func (m *Model) resetSession() {
	m.recordSession()
	m.sess.Reset()
	m.input.SetValue("")
	if _, ok := m.sess.Target(); ok {
		m.setFeedback(feedbackBankMode, toneMuted)
		return
	}
	m.setFeedback(feedbackPrompt, toneMuted)
}

// recordSession persists the finished run. Saving must not interrupt
// practice, so failures only log.
func (m *Model) recordSession() {
	if m.store == nil {
		return
	}
	rec, ok := m.sess.Record(time.Now(), m.cfg.BankPath, m.cfg.DictPath)
	if !ok {
		return
	}
	if _, err := m.store.InsertSession(context.Background(), rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

func (m *Model) setFeedback(text string, t tone) {
	m.feedback = text
	m.feedbackTone = t
}

func (m *Model) updateLayout() {
	if m.width <= 0 {
		return
	}
	cw := contentWidth(m.width)
	m.input.Width = maxInt(minInputWidth, cw-lipgloss.Width(m.input.Prompt)-1)
	m.source.SetWidth(maxInt(minSourceWidth, overlayInnerWidth(m.width)))
	m.source.SetHeight(sourceHeight)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.pasteMode {
		return m.viewPaste()
	}
	cw := contentWidth(m.width)
	lines := []string{
		m.viewTarget(cw),
		"",
		hintStyle.Render(truncateToWidth(m.hintLine(), cw)),
		"",
		m.input.View(),
		"",
		m.feedbackView(),
	}
	content := strings.Join(lines, "\n")
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	statsLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	helpLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center,
		footerStyle.Render(truncateToWidth(helpText, m.width)))
	return body + "\n" + statsLine + "\n" + helpLine
}

func (m *Model) viewPaste() string {
	parts := []string{
		titleStyle.Render("Quote Text"),
		"",
		m.source.View(),
		"",
		mutedStyle.Render("One quote per line; every whitespace-separated token becomes a target."),
		footerStyle.Render("Apply: ctrl+d  Cancel: esc"),
	}
	box := overlayStyle.Render(strings.Join(parts, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) viewTarget(width int) string {
	target, ok := m.sess.Target()
	if !ok {
		return placeholdStyle.Render("—")
	}
	runes := buildTargetRunes([]rune(target), []rune(m.input.Value()))
	return wrapStyled(runes, width)
}

// hintLine mirrors the dictionary hint: matched strokes joined with pipes and
// capped, or guidance when no target or mapping exists.
func (m *Model) hintLine() string {
	target, ok := m.sess.Target()
	if !ok {
		if m.sess.QuoteComplete() {
			return ""
		}
		if m.sess.Mode() == model.ModeQuoteSequential {
			return "Paste quote text (ctrl+p), then restart (ctrl+r)."
		}
		return "Load a word bank or paste quote text (ctrl+p)."
	}
	if m.dict == nil {
		return "(load a dictionary for hints)"
	}
	strokes := m.dict.LookupHint(target)
	if len(strokes) == 0 {
		return "(no steno mapping found)"
	}
	shown := strokes
	if m.cfg.HintLimit > 0 && len(shown) > m.cfg.HintLimit {
		shown = shown[:m.cfg.HintLimit]
	}
	line := "Steno: " + strings.Join(shown, " | ")
	if len(strokes) > len(shown) {
		line += " | …"
	}
	return line
}

func (m *Model) feedbackView() string {
	switch m.feedbackTone {
	case toneGood:
		return goodStyle.Render(m.feedback)
	case toneBad:
		return badStyle.Render(m.feedback)
	default:
		return mutedStyle.Render(m.feedback)
	}
}

func (m *Model) renderFooter() string {
	c := m.sess.Counters()
	live := statsPkg.ComputeLive(c, m.sess.Elapsed(time.Now()))
	segments := []string{
		fmt.Sprintf("WPM %d", live.WPM),
		fmt.Sprintf("Acc %d%%", live.Accuracy),
		fmt.Sprintf("Correct %d/%d", c.CorrectAttempts, c.TotalAttempts),
		fmt.Sprintf("Streak %d (best %d)", c.Streak, c.BestStreak),
		fmt.Sprintf("Time %s", live.Clock),
	}
	if m.sess.Mode() == model.ModeQuoteSequential {
		if idx, total := m.sess.QuoteProgress(); total > 0 {
			segments = append(segments, fmt.Sprintf("Quote %d/%d", idx+1, total))
		} else {
			segments = append(segments, "Quote -/-")
		}
	} else {
		segments = append(segments, fmt.Sprintf("Bank %d", m.sess.BankSize()))
	}
	segments = append(segments, m.fileSegments()...)
	return footerStyle.Render(truncateToWidth(strings.Join(segments, "  "), m.width))
}

func (m *Model) fileSegments() []string {
	var segments []string
	if m.cfg.BankPath != "" {
		segments = append(segments, filepath.Base(m.cfg.BankPath))
	}
	if m.cfg.DictPath != "" && m.dict != nil {
		segments = append(segments, fmt.Sprintf("%s (%d)", filepath.Base(m.cfg.DictPath), m.dict.Len()))
	}
	return segments
}

func contentWidth(total int) int {
	cw := int(float64(total) * 0.70)
	if cw < 1 {
		cw = 1
	}
	return cw
}

// overlayInnerWidth leaves room for the overlay border and padding.
func overlayInnerWidth(total int) int {
	outer := minInt(total-2, overlayMaxWidth)
	return outer - 6
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
