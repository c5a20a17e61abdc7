// Package model defines shared data structures.
package model

import "time"

// Mode selects which source supplies practice targets.
type Mode string

const (
	// ModeBankRandom picks targets uniformly at random from the word bank.
	ModeBankRandom Mode = "bank_random"

	// ModeQuoteSequential walks the tokenized quote text in order.
	ModeQuoteSequential Mode = "quote_seq"
)

// IsValid reports whether m is a recognised source mode.
func (m Mode) IsValid() bool {
	return m == ModeBankRandom || m == ModeQuoteSequential
}

// Config defines practice settings.
type Config struct {
	BankPath  string
	DictPath  string
	QuotePath string
	Mode      Mode
	HintLimit int
	DBPath    string
}

// Counters holds the monotonic counters of one practice session.
type Counters struct {
	TotalAttempts   int
	CorrectAttempts int
	CorrectChars    int
	Streak          int
	BestStreak      int
}

// SessionRecord captures a completed practice session.
type SessionRecord struct {
	StartedAt       time.Time
	EndedAt         time.Time
	Mode            Mode
	BankPath        string
	DictPath        string
	TotalAttempts   int
	CorrectAttempts int
	CorrectChars    int
	BestStreak      int
	DurationMs      int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        Mode
	Since       *time.Time
	Last        int
	CurveWindow int
}
