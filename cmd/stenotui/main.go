// Package main provides the CLI entrypoint for stenotui.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/stenotui/internal/bank"
	"github.com/verte-zerg/stenotui/internal/config"
	"github.com/verte-zerg/stenotui/internal/dict"
	"github.com/verte-zerg/stenotui/internal/model"
	"github.com/verte-zerg/stenotui/internal/session"
	"github.com/verte-zerg/stenotui/internal/stats"
	"github.com/verte-zerg/stenotui/internal/store"
	"github.com/verte-zerg/stenotui/internal/tui"
)

const (
	defaultHintLimit   = 20
	defaultCurveWindow = 20
	defaultDictSample  = 10
)

var (
	practiceBank      string
	practiceDict      string
	practiceQuote     string
	practiceMode      string
	practiceHintLimit int
	practiceDB        string
	practiceConfig    string

	statsDB     string
	statsMode   string
	statsSince  string
	statsLast   int
	statsWindow int

	dictSample int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stenotui",
		Short:         "Steno typing practice TUI",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceBank, "bank", "", "word bank file, one word or phrase per line")
	rootCmd.Flags().StringVar(&practiceDict, "dict", "", "steno dictionary JSON file")
	rootCmd.Flags().StringVar(&practiceQuote, "quote", "", "quote text file for sequential practice")
	rootCmd.Flags().StringVar(&practiceMode, "mode", "", "start mode: bank or quote")
	rootCmd.Flags().IntVar(&practiceHintLimit, "hint-limit", defaultHintLimit, "max strokes shown per hint")
	rootCmd.Flags().StringVar(&practiceDB, "db", "", "history database path")
	rootCmd.Flags().StringVar(&practiceConfig, "config", "", "config file path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDictCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	configPath := practiceConfig
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "bank", &practiceBank, fileCfg.Practice.Bank)
	applyStringConfig(cmd, "dict", &practiceDict, fileCfg.Practice.Dict)
	applyStringConfig(cmd, "quote", &practiceQuote, fileCfg.Practice.Quote)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "hint-limit", &practiceHintLimit, fileCfg.Practice.HintLimit)

	mode, err := parseMode(practiceMode)
	if err != nil {
		return err
	}
	if practiceHintLimit <= 0 {
		return fmt.Errorf("--hint-limit must be > 0")
	}

	// Paths remembered from the previous run fill the gaps that flags and
	// config leave open.
	statePath := config.DefaultStatePath()
	state := config.LoadState(statePath)
	bankFromState := practiceBank == "" && state.Bank() != ""
	if bankFromState {
		practiceBank = state.Bank()
	}
	dictFromState := practiceDict == "" && state.Dict() != ""
	if dictFromState {
		practiceDict = state.Dict()
	}

	var words []string
	if practiceBank != "" {
		words, err = bank.LoadFile(practiceBank)
		if err != nil {
			if !bankFromState {
				return fmt.Errorf("failed to load word bank: %w", err)
			}
			// The remembered file is gone; start without a bank.
			practiceBank = ""
			words = nil
		}
	}

	var d *dict.Dictionary
	if practiceDict != "" {
		d, err = dict.LoadFile(practiceDict)
		if err != nil {
			if !dictFromState {
				return fmt.Errorf("failed to load dictionary: %w", err)
			}
			practiceDict = ""
			d = nil
		}
	}

	var quoteText string
	if practiceQuote != "" {
		data, err := os.ReadFile(practiceQuote)
		if err != nil {
			return fmt.Errorf("failed to load quote text: %w", err)
		}
		quoteText = string(data)
	}

	if err := config.SaveState(statePath, config.NewState(practiceBank, practiceDict)); err != nil {
		logErrf("failed to save state: %v\n", err)
	}

	dbPath := practiceDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess := session.New()
	sess.SetQuoteText(quoteText)
	if len(words) > 0 {
		sess.SetBank(words)
	}
	switch mode {
	case model.ModeQuoteSequential:
		sess.UseQuoteMode()
	case model.ModeBankRandom:
		// Refused without a bank; the TUI then prompts for one.
		sess.UseBankMode()
	default:
		if _, ok := sess.Target(); !ok && quoteText != "" {
			sess.UseQuoteMode()
		}
	}

	cfg := model.Config{
		BankPath:  practiceBank,
		DictPath:  practiceDict,
		QuotePath: practiceQuote,
		Mode:      sess.Mode(),
		HintLimit: practiceHintLimit,
		DBPath:    dbPath,
	}

	tuiModel := tui.NewModel(cfg, sess, st, d)
	program := tea.NewProgram(tuiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if rec, ok := sess.Record(time.Now(), practiceBank, practiceDict); ok {
		if _, err := st.InsertSession(context.Background(), rec); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDB, "db", "", "history database path")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter: bank or quote")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	mode, err := parseMode(statsMode)
	if err != nil {
		return err
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	dbPath := statsDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := model.StatsConfig{
		Mode:        mode,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsWindow,
	}
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return stats.RenderReport(cmd.OutOrStdout(), report, statsWindow)
}

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict <path>",
		Short: "Inspect a steno dictionary",
		Args:  cobra.ExactArgs(1),
		RunE:  runDictCmd,
	}
	cmd.Flags().IntVar(&dictSample, "sample", defaultDictSample, "number of sample translations")
	return cmd
}

func runDictCmd(cmd *cobra.Command, args []string) error {
	d, err := dict.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "File: %s\n", args[0]); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Orientation: %s\n", d.Orientation()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Translations: %d\n", d.Len()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if dictSample <= 0 || d.Len() == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	translations := d.Translations()
	if len(translations) > dictSample {
		translations = translations[:dictSample]
	}
	for _, tr := range translations {
		if _, err := fmt.Fprintf(out, "%s: %s\n", tr, strings.Join(d.Strokes(tr), " | ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func parseMode(s string) (model.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "bank":
		return model.ModeBankRandom, nil
	case "quote":
		return model.ModeQuoteSequential, nil
	}
	return "", fmt.Errorf("invalid --mode value %q (use bank or quote)", s)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# stenotui configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# bank = "/path/to/words.txt"    # Word bank file, one word or phrase per line
# dict = "/path/to/main.json"    # Steno dictionary JSON (either orientation)
# quote = "/path/to/quote.txt"   # Quote text for sequential practice
# mode = "bank"                  # Start mode: bank or quote
# hint-limit = %d                # Max strokes shown per hint
`, defaultHintLimit)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
