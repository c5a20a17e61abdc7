package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// State remembers the last used practice files between runs. Unset paths
// round-trip as JSON null.
type State struct {
	WordBankPath *string `json:"word_bank_path"`
	DictPath     *string `json:"dict_path"`
}

// NewState builds a State from plain paths, mapping empty strings to null.
func NewState(bankPath, dictPath string) State {
	var s State
	if bankPath != "" {
		s.WordBankPath = &bankPath
	}
	if dictPath != "" {
		s.DictPath = &dictPath
	}
	return s
}

// Bank returns the remembered word bank path, or empty when unset.
func (s State) Bank() string {
	if s.WordBankPath == nil {
		return ""
	}
	return *s.WordBankPath
}

// Dict returns the remembered dictionary path, or empty when unset.
func (s State) Dict() string {
	if s.DictPath == nil {
		return ""
	}
	return *s.DictPath
}

// LoadState reads the state file. A missing or unreadable file yields a zero
// State so a stale or corrupt file never blocks startup.
func LoadState(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}
	}
	return s
}

// SaveState writes the state file, creating the parent directory if needed.
func SaveState(path string, s State) error {
	if path == "" {
		return fmt.Errorf("state path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
