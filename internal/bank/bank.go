// Package bank loads word banks that supply random practice targets.
package bank

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads one entry per line from r. Lines are trimmed; blank lines and
// lines starting with "#" are skipped. Order is preserved. An empty result
// is an error.
func Load(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word bank is empty")
	}
	return entries, nil
}

// LoadFile reads a word bank from the provided file path.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word bank.
			_ = cerr
		}
	}()
	return Load(file)
}
