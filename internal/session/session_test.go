package session

import (
	"testing"
	"time"

	"github.com/verte-zerg/stenotui/internal/model"
)

func inBank(bank []string, target string) bool {
	for _, w := range bank {
		if w == target {
			return true
		}
	}
	return false
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New()
	if _, ok := s.Target(); ok {
		t.Fatalf("expected no target on a fresh session")
	}
	if s.Started() {
		t.Fatalf("expected clock to be stopped")
	}
	if out := s.OnInputChange("cat"); out != OutcomeNone {
		t.Fatalf("expected OutcomeNone without a target, got %v", out)
	}
	if c := s.Counters(); c != (model.Counters{}) {
		t.Fatalf("expected zero counters, got %+v", c)
	}
}

func TestSetBankAutoStarts(t *testing.T) {
	s := New()
	bank := []string{"cat", "dog", "as well"}
	s.SetBank(bank)

	target, ok := s.Target()
	if !ok {
		t.Fatalf("expected a target after loading a bank")
	}
	if !inBank(bank, target) {
		t.Fatalf("target %q is not a bank entry", target)
	}
	if s.Mode() != model.ModeBankRandom {
		t.Fatalf("expected bank mode, got %s", s.Mode())
	}
	if !s.Started() {
		t.Fatalf("expected clock to start with the first target")
	}
}

func TestBankAdvanceStaysInBank(t *testing.T) {
	s := New()
	bank := []string{"cat", "dog", "night."}
	s.SetBank(bank)

	for i := 0; i < 50; i++ {
		target, _ := s.Target()
		out := s.OnInputChange(target)
		if out != OutcomeCorrect {
			t.Fatalf("round %d: expected OutcomeCorrect, got %v", i, out)
		}
		next, ok := s.Target()
		if !ok {
			t.Fatalf("round %d: expected a new target", i)
		}
		if !inBank(bank, next) {
			t.Fatalf("round %d: target %q is not a bank entry", i, next)
		}
	}
	c := s.Counters()
	if c.TotalAttempts != 50 || c.CorrectAttempts != 50 {
		t.Fatalf("expected 50/50 attempts, got %d/%d", c.CorrectAttempts, c.TotalAttempts)
	}
}

func TestCorrectMatchCountsOnce(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})

	if out := s.OnInputChange("cat"); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect, got %v", out)
	}
	c := s.Counters()
	if c.TotalAttempts != 1 || c.CorrectAttempts != 1 {
		t.Fatalf("expected 1/1 attempts, got %d/%d", c.CorrectAttempts, c.TotalAttempts)
	}
	if c.CorrectChars != 3 {
		t.Fatalf("expected 3 correct chars, got %d", c.CorrectChars)
	}
	if c.Streak != 1 || c.BestStreak != 1 {
		t.Fatalf("expected streak 1/1, got %d/%d", c.Streak, c.BestStreak)
	}
	if in := s.Input(); in != "" {
		t.Fatalf("expected cleared buffer after advance, got %q", in)
	}
}

func TestSubmitAfterInputChangeDoesNotDoubleCount(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})

	if out := s.OnInputChange("cat"); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect, got %v", out)
	}
	if out := s.Submit(); out != OutcomeNone {
		t.Fatalf("expected OutcomeNone from the submit path, got %v", out)
	}
	c := s.Counters()
	if c.TotalAttempts != 1 || c.CorrectAttempts != 1 {
		t.Fatalf("expected 1/1 attempts after both paths, got %d/%d", c.CorrectAttempts, c.TotalAttempts)
	}
}

func TestSubmitCountsExactMatch(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.input = "cat"

	if out := s.Submit(); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect, got %v", out)
	}
	if c := s.Counters(); c.TotalAttempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", c.TotalAttempts)
	}
}

func TestSubmitRespectsPendingGuard(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.input = "cat"
	s.pending = true

	if out := s.Submit(); out != OutcomeNone {
		t.Fatalf("expected OutcomeNone while guard is held, got %v", out)
	}
	if c := s.Counters(); c.TotalAttempts != 0 {
		t.Fatalf("expected no attempts counted, got %d", c.TotalAttempts)
	}
}

func TestSubmitIgnoresMismatch(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.input = "dog"

	if out := s.Submit(); out != OutcomeNone {
		t.Fatalf("expected OutcomeNone for a mismatch, got %v", out)
	}
	if c := s.Counters(); c.TotalAttempts != 0 {
		t.Fatalf("expected no attempts counted, got %d", c.TotalAttempts)
	}
}

func TestInputChangeFeedback(t *testing.T) {
	s := New()
	s.SetBank([]string{"night."})

	if out := s.OnInputChange(""); out != OutcomePrompt {
		t.Fatalf("expected OutcomePrompt for empty buffer, got %v", out)
	}
	if out := s.OnInputChange("nig"); out != OutcomeProgress {
		t.Fatalf("expected OutcomeProgress for a prefix, got %v", out)
	}
	if out := s.OnInputChange("nix"); out != OutcomeIncorrect {
		t.Fatalf("expected OutcomeIncorrect for a diverged buffer, got %v", out)
	}
	if c := s.Counters(); c.TotalAttempts != 0 {
		t.Fatalf("incorrect feedback must not count attempts, got %d", c.TotalAttempts)
	}
}

func TestMatchIsWhitespaceInsensitive(t *testing.T) {
	s := New()
	s.SetBank([]string{"good night."})

	if out := s.OnInputChange("  good   night. "); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect across whitespace runs, got %v", out)
	}
}

func TestMatchKeepsCaseSignificant(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})

	if out := s.OnInputChange("Cat"); out != OutcomeIncorrect {
		t.Fatalf("expected OutcomeIncorrect for case mismatch, got %v", out)
	}
}

func TestQuoteSequentialWalk(t *testing.T) {
	s := New()
	s.SetQuoteText("good night. sleep  well")
	if !s.UseQuoteMode() {
		t.Fatalf("expected quote mode to start")
	}
	if s.Mode() != model.ModeQuoteSequential {
		t.Fatalf("expected quote mode, got %s", s.Mode())
	}

	want := []string{"good", "night.", "sleep", "well"}
	for i, token := range want {
		target, ok := s.Target()
		if !ok {
			t.Fatalf("step %d: expected a target", i)
		}
		if target != token {
			t.Fatalf("step %d: expected target %q, got %q", i, token, target)
		}
		idx, total := s.QuoteProgress()
		if idx != i || total != len(want) {
			t.Fatalf("step %d: unexpected cursor %d/%d", i, idx, total)
		}
		out := s.OnInputChange(token)
		if i < len(want)-1 && out != OutcomeCorrect {
			t.Fatalf("step %d: expected OutcomeCorrect, got %v", i, out)
		}
		if i == len(want)-1 && out != OutcomeQuoteComplete {
			t.Fatalf("expected OutcomeQuoteComplete at the last token, got %v", out)
		}
	}

	if _, ok := s.Target(); ok {
		t.Fatalf("expected no target after completion")
	}
	if !s.QuoteComplete() {
		t.Fatalf("expected quote to be complete")
	}
	if idx, _ := s.QuoteProgress(); idx != len(want)-1 {
		t.Fatalf("cursor moved past the last token: %d", idx)
	}
	if out := s.OnInputChange("anything"); out != OutcomeNone {
		t.Fatalf("expected OutcomeNone after completion, got %v", out)
	}
	if c := s.Counters(); c.TotalAttempts != 4 || c.CorrectAttempts != 4 {
		t.Fatalf("expected 4/4 attempts, got %d/%d", c.CorrectAttempts, c.TotalAttempts)
	}
}

func TestQuoteSkipStopsAtEnd(t *testing.T) {
	s := New()
	s.SetQuoteText("one two")
	if !s.UseQuoteMode() {
		t.Fatalf("expected quote mode to start")
	}

	if res := s.Skip(); res != SkipAdvanced {
		t.Fatalf("expected SkipAdvanced, got %v", res)
	}
	target, _ := s.Target()
	if target != "two" {
		t.Fatalf("expected target %q, got %q", "two", target)
	}

	if res := s.Skip(); res != SkipAtQuoteEnd {
		t.Fatalf("expected SkipAtQuoteEnd, got %v", res)
	}
	if after, _ := s.Target(); after != "two" {
		t.Fatalf("skip at end must keep the target, got %q", after)
	}
	if c := s.Counters(); c.TotalAttempts != 0 {
		t.Fatalf("skips must not count attempts, got %d", c.TotalAttempts)
	}

	// The last token is still typeable after a skip refused to move.
	if out := s.OnInputChange("two"); out != OutcomeQuoteComplete {
		t.Fatalf("expected OutcomeQuoteComplete, got %v", out)
	}
}

func TestSkipResetsStreakOnly(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})

	if out := s.OnInputChange("cat"); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect, got %v", out)
	}
	if res := s.Skip(); res != SkipAdvanced {
		t.Fatalf("expected SkipAdvanced, got %v", res)
	}
	c := s.Counters()
	if c.TotalAttempts != 1 || c.CorrectAttempts != 1 {
		t.Fatalf("skip changed attempt counters: %d/%d", c.CorrectAttempts, c.TotalAttempts)
	}
	if c.Streak != 0 {
		t.Fatalf("expected streak reset, got %d", c.Streak)
	}
	if c.BestStreak != 1 {
		t.Fatalf("expected best streak kept, got %d", c.BestStreak)
	}
	if _, ok := s.Target(); !ok {
		t.Fatalf("expected a new target after skip")
	}
}

func TestSkipWithoutSource(t *testing.T) {
	s := New()
	if res := s.Skip(); res != SkipNone {
		t.Fatalf("expected SkipNone, got %v", res)
	}
}

func TestSkipStartsClockInBankMode(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.startedAt = time.Time{}

	if res := s.Skip(); res != SkipAdvanced {
		t.Fatalf("expected SkipAdvanced, got %v", res)
	}
	if !s.Started() {
		t.Fatalf("expected skip to start the clock")
	}
}

func TestUseBankModeWithoutBank(t *testing.T) {
	s := New()
	if s.UseBankMode() {
		t.Fatalf("expected bank mode switch to be refused")
	}
}

func TestUseQuoteModeWithoutText(t *testing.T) {
	s := New()
	s.SetQuoteText("   \n\t ")
	if s.UseQuoteMode() {
		t.Fatalf("expected quote mode start to be refused")
	}
	if _, ok := s.Target(); ok {
		t.Fatalf("expected no target for empty quote text")
	}
	if s.Mode() != model.ModeQuoteSequential {
		t.Fatalf("expected mode to switch anyway, got %s", s.Mode())
	}
}

func TestQuoteRestartAfterCompletion(t *testing.T) {
	s := New()
	s.SetQuoteText("one two")
	s.UseQuoteMode()
	s.OnInputChange("one")
	if out := s.OnInputChange("two"); out != OutcomeQuoteComplete {
		t.Fatalf("expected OutcomeQuoteComplete, got %v", out)
	}

	if !s.UseQuoteMode() {
		t.Fatalf("expected restart to succeed")
	}
	if s.QuoteComplete() {
		t.Fatalf("expected completion flag cleared on restart")
	}
	target, _ := s.Target()
	if target != "one" {
		t.Fatalf("expected cursor back at the first token, got %q", target)
	}
	if c := s.Counters(); c.TotalAttempts != 2 {
		t.Fatalf("restart must keep counters, got %d attempts", c.TotalAttempts)
	}
}

func TestSwitchBetweenModes(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat", "dog"})
	s.SetQuoteText("one two")

	if !s.UseQuoteMode() {
		t.Fatalf("expected quote mode to start")
	}
	if target, _ := s.Target(); target != "one" {
		t.Fatalf("expected quote target, got %q", target)
	}
	if !s.UseBankMode() {
		t.Fatalf("expected bank mode to start")
	}
	target, _ := s.Target()
	if !inBank([]string{"cat", "dog"}, target) {
		t.Fatalf("expected a bank target, got %q", target)
	}
}

func TestResetRestartsFromBank(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.OnInputChange("cat")
	s.Reset()

	if c := s.Counters(); c != (model.Counters{}) {
		t.Fatalf("expected zero counters after reset, got %+v", c)
	}
	if _, ok := s.Target(); !ok {
		t.Fatalf("expected a fresh bank target after reset")
	}
	if !s.Started() {
		t.Fatalf("expected clock restarted with the new target")
	}
	if s.Mode() != model.ModeBankRandom {
		t.Fatalf("expected bank mode after reset, got %s", s.Mode())
	}
}

func TestResetWithoutBankGoesIdle(t *testing.T) {
	s := New()
	s.SetQuoteText("one two")
	s.UseQuoteMode()
	s.OnInputChange("one")
	s.Reset()

	if _, ok := s.Target(); ok {
		t.Fatalf("expected no target after reset without a bank")
	}
	if s.Started() {
		t.Fatalf("expected clock stopped after reset without a bank")
	}
}

func TestElapsedFloor(t *testing.T) {
	s := New()
	now := time.Now()
	if d := s.Elapsed(now); d != 0 {
		t.Fatalf("expected zero elapsed before start, got %v", d)
	}
	s.startedAt = now.Add(time.Minute)
	if d := s.Elapsed(now); d != 0 {
		t.Fatalf("expected elapsed floored at zero, got %v", d)
	}
	s.startedAt = now.Add(-30 * time.Second)
	if d := s.Elapsed(now); d != 30*time.Second {
		t.Fatalf("expected 30s elapsed, got %v", d)
	}
}

func TestCorrectCharsCountRunes(t *testing.T) {
	s := New()
	s.SetBank([]string{"naïve"})

	if out := s.OnInputChange("naïve"); out != OutcomeCorrect {
		t.Fatalf("expected OutcomeCorrect, got %v", out)
	}
	if c := s.Counters(); c.CorrectChars != 5 {
		t.Fatalf("expected 5 correct chars, got %d", c.CorrectChars)
	}
}

func TestRecordSkipsEmptySession(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})

	if _, ok := s.Record(time.Now(), "words.txt", ""); ok {
		t.Fatalf("expected no record before the first attempt")
	}
}

func TestRecordPopulatesFields(t *testing.T) {
	s := New()
	s.SetBank([]string{"cat"})
	s.OnInputChange("cat")
	s.OnInputChange("cat")
	started := time.Now().Add(-90 * time.Second)
	s.startedAt = started
	ended := started.Add(90 * time.Second)

	rec, ok := s.Record(ended, "words.txt", "main.json")
	if !ok {
		t.Fatalf("expected a record after counted attempts")
	}
	if !rec.StartedAt.Equal(started) || !rec.EndedAt.Equal(ended) {
		t.Fatalf("unexpected interval %v..%v", rec.StartedAt, rec.EndedAt)
	}
	if rec.Mode != model.ModeBankRandom {
		t.Fatalf("expected bank mode, got %s", rec.Mode)
	}
	if rec.BankPath != "words.txt" || rec.DictPath != "main.json" {
		t.Fatalf("unexpected paths %q, %q", rec.BankPath, rec.DictPath)
	}
	if rec.TotalAttempts != 2 || rec.CorrectAttempts != 2 {
		t.Fatalf("expected 2/2 attempts, got %d/%d", rec.CorrectAttempts, rec.TotalAttempts)
	}
	if rec.CorrectChars != 6 {
		t.Fatalf("expected 6 correct chars, got %d", rec.CorrectChars)
	}
	if rec.BestStreak != 2 {
		t.Fatalf("expected best streak 2, got %d", rec.BestStreak)
	}
	if rec.DurationMs != 90_000 {
		t.Fatalf("expected 90000ms duration, got %d", rec.DurationMs)
	}
}
