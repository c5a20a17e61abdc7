// Package session implements the practice drill state machine: the active
// target, the source mode supplying targets, match evaluation, and counter
// accrual. All state lives on the Session object.
package session

import (
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/stenotui/internal/model"
	"github.com/verte-zerg/stenotui/internal/text"
)

// Outcome classifies the session's reaction to one input event.
type Outcome int

const (
	// OutcomeNone means nothing was evaluated (no active target, or the
	// event was absorbed by the pending-advance guard).
	OutcomeNone Outcome = iota

	// OutcomePrompt means the buffer is empty and input is awaited.
	OutcomePrompt

	// OutcomeProgress means the buffer is a strict prefix of the target.
	OutcomeProgress

	// OutcomeIncorrect means the buffer diverged from the target. The
	// attempt is not counted; only resolved matches count.
	OutcomeIncorrect

	// OutcomeCorrect means the match was counted and a new target is set.
	OutcomeCorrect

	// OutcomeQuoteComplete means the match was counted and it finished the
	// quote sequence.
	OutcomeQuoteComplete
)

// SkipResult classifies a manual skip.
type SkipResult int

const (
	// SkipNone means there was no source to skip within.
	SkipNone SkipResult = iota

	// SkipAdvanced means the session moved to a new target.
	SkipAdvanced

	// SkipAtQuoteEnd means the cursor already sits on the last quote token;
	// the target is left unchanged.
	SkipAtQuoteEnd
)

// Session is the practice state machine. Zero targets are impossible: bank
// entries and quote tokens are never empty strings, so an empty target means
// none is active.
type Session struct {
	mode model.Mode

	bank []string

	quoteText   string
	quoteTokens []string
	quoteIdx    int
	quoteDone   bool

	target  string
	input   string
	pending bool

	counters  model.Counters
	startedAt time.Time

	rnd *rand.Rand
}

// New returns an idle session with no sources loaded.
func New() *Session {
	return &Session{
		mode: model.ModeBankRandom,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetBank installs a loaded word bank. If no target is active the session
// starts bank mode immediately.
func (s *Session) SetBank(words []string) {
	s.bank = words
	s.maybeStart()
}

// SetQuoteText stores the raw quote source consumed by UseQuoteMode.
func (s *Session) SetQuoteText(raw string) {
	s.quoteText = raw
}

// QuoteText returns the stored quote source.
func (s *Session) QuoteText() string {
	return s.quoteText
}

// UseBankMode switches to random bank targets. It reports false when no bank
// is loaded.
func (s *Session) UseBankMode() bool {
	if len(s.bank) == 0 {
		return false
	}
	s.mode = model.ModeBankRandom
	if s.startedAt.IsZero() {
		s.startedAt = time.Now()
	}
	s.pickFromBank()
	return true
}

// UseQuoteMode switches to sequential quote targets, tokenizing the stored
// source text from the beginning. It reports false when the source text has
// no tokens, leaving the session without a target.
func (s *Session) UseQuoteMode() bool {
	s.mode = model.ModeQuoteSequential
	if s.startedAt.IsZero() {
		s.startedAt = time.Now()
	}
	return s.restartQuote()
}

func (s *Session) restartQuote() bool {
	s.quoteTokens = text.Tokenize(s.quoteText)
	s.quoteDone = false
	if len(s.quoteTokens) == 0 {
		s.clearTarget()
		return false
	}
	s.quoteIdx = 0
	s.setTarget(s.quoteTokens[0])
	return true
}

// OnInputChange records the typed buffer and evaluates it against the target.
// Comparison is on normalized text; case and punctuation stay significant.
func (s *Session) OnInputChange(typed string) Outcome {
	s.input = typed
	if s.target == "" {
		return OutcomeNone
	}
	normTyped := text.Normalize(typed)
	normTarget := text.Normalize(s.target)
	if normTyped == "" {
		return OutcomePrompt
	}
	if normTyped == normTarget {
		return s.markCorrect()
	}
	if strings.HasPrefix(normTarget, normTyped) {
		return OutcomeProgress
	}
	return OutcomeIncorrect
}

// Submit applies the explicit-submit path: an exact match of the stored
// buffer funnels through the same guarded transition as OnInputChange, so one
// target occurrence is never counted twice.
func (s *Session) Submit() Outcome {
	if s.target == "" || s.pending {
		return OutcomeNone
	}
	if text.Normalize(s.input) != text.Normalize(s.target) {
		return OutcomeNone
	}
	return s.markCorrect()
}

// Skip abandons the current target: the streak resets and the session moves
// on without touching the attempt counters.
func (s *Session) Skip() SkipResult {
	s.pending = false
	s.counters.Streak = 0
	if s.mode == model.ModeQuoteSequential {
		if len(s.quoteTokens) == 0 {
			return SkipNone
		}
		if s.quoteIdx < len(s.quoteTokens)-1 {
			s.quoteIdx++
			s.setTarget(s.quoteTokens[s.quoteIdx])
			return SkipAdvanced
		}
		return SkipAtQuoteEnd
	}
	if len(s.bank) == 0 {
		return SkipNone
	}
	if s.startedAt.IsZero() {
		s.startedAt = time.Now()
	}
	s.pickFromBank()
	return SkipAdvanced
}

// Reset clears counters, guard, target, and the session clock, then starts
// over from the loaded bank if one is present.
func (s *Session) Reset() {
	s.counters = model.Counters{}
	s.pending = false
	s.target = ""
	s.input = ""
	s.quoteDone = false
	s.startedAt = time.Time{}
	s.maybeStart()
}

// Target returns the active target and whether one is set.
func (s *Session) Target() (string, bool) {
	return s.target, s.target != ""
}

// Input returns the session's view of the typed buffer.
func (s *Session) Input() string {
	return s.input
}

// Mode returns the active source mode.
func (s *Session) Mode() model.Mode {
	return s.mode
}

// Counters returns a copy of the session counters.
func (s *Session) Counters() model.Counters {
	return s.counters
}

// Started reports whether the session clock is running.
func (s *Session) Started() bool {
	return !s.startedAt.IsZero()
}

// StartedAt returns the session clock start time, zero when idle.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Elapsed returns the time since the session clock started, floored at zero.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	d := now.Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// BankSize returns the number of loaded bank entries.
func (s *Session) BankSize() int {
	return len(s.bank)
}

// QuoteProgress returns the zero-based quote cursor and the token count.
func (s *Session) QuoteProgress() (int, int) {
	return s.quoteIdx, len(s.quoteTokens)
}

// QuoteComplete reports whether the quote sequence was typed to the end.
func (s *Session) QuoteComplete() bool {
	return s.quoteDone
}

// Record summarizes the session for persistence. It reports false when there
// is nothing worth saving: no attempt resolved, or the clock never started.
func (s *Session) Record(endedAt time.Time, bankPath, dictPath string) (model.SessionRecord, bool) {
	if s.counters.TotalAttempts == 0 || s.startedAt.IsZero() {
		return model.SessionRecord{}, false
	}
	return model.SessionRecord{
		StartedAt:       s.startedAt,
		EndedAt:         endedAt,
		Mode:            s.mode,
		BankPath:        bankPath,
		DictPath:        dictPath,
		TotalAttempts:   s.counters.TotalAttempts,
		CorrectAttempts: s.counters.CorrectAttempts,
		CorrectChars:    s.counters.CorrectChars,
		BestStreak:      s.counters.BestStreak,
		DurationMs:      s.Elapsed(endedAt).Milliseconds(),
	}, true
}

// markCorrect is the single guarded correct-attempt transition: it fires at
// most once per target occurrence, counts the attempt, and advances.
func (s *Session) markCorrect() Outcome {
	if s.pending {
		return OutcomeNone
	}
	s.pending = true
	s.counters.TotalAttempts++
	s.counters.CorrectAttempts++
	s.counters.Streak++
	if s.counters.Streak > s.counters.BestStreak {
		s.counters.BestStreak = s.counters.Streak
	}
	s.counters.CorrectChars += utf8.RuneCountInString(text.Normalize(s.target))
	return s.advance()
}

// advance installs the next target after a counted match.
func (s *Session) advance() Outcome {
	s.pending = false
	if s.mode == model.ModeQuoteSequential {
		if len(s.quoteTokens) == 0 {
			s.clearTarget()
			return OutcomeNone
		}
		if s.quoteIdx < len(s.quoteTokens)-1 {
			s.quoteIdx++
			s.setTarget(s.quoteTokens[s.quoteIdx])
			return OutcomeCorrect
		}
		s.quoteDone = true
		s.clearTarget()
		return OutcomeQuoteComplete
	}
	s.pickFromBank()
	return OutcomeCorrect
}

// maybeStart begins bank mode when a bank is loaded and nothing is active.
func (s *Session) maybeStart() {
	if s.target != "" || len(s.bank) == 0 {
		return
	}
	s.mode = model.ModeBankRandom
	s.startedAt = time.Now()
	s.pickFromBank()
}

// setTarget installs a new target, clearing the typed buffer and the
// pending-advance guard.
func (s *Session) setTarget(t string) {
	s.target = t
	s.input = ""
	s.pending = false
}

// clearTarget drops the target without touching the typed buffer.
func (s *Session) clearTarget() {
	s.target = ""
	s.pending = false
}

func (s *Session) pickFromBank() {
	if len(s.bank) == 0 {
		return
	}
	s.setTarget(s.bank[s.rnd.Intn(len(s.bank))])
}
