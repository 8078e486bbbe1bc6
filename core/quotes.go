package core

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed quotes.yaml
var defaultQuotesYAML []byte

var ErrNoQuotes = errors.New("quotes catalog is empty")

// Quotes is a read-only catalog of motivational lines
type Quotes struct {
	lines []string
	pick  func(n int) int
}

type quotesFile struct {
	Quotes []string `yaml:"quotes"`
}

// DefaultQuotes returns the embedded catalog
func DefaultQuotes() *Quotes {
	q, err := ParseQuotes(defaultQuotesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded quotes: %v", err))
	}
	return q
}

// ParseQuotes reads a catalog of the form `quotes: [...]`
func ParseQuotes(data []byte) (*Quotes, error) {
	var f quotesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse quotes: %w", err)
	}

	lines := f.Quotes[:0]
	for _, l := range f.Quotes {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoQuotes
	}
	return &Quotes{lines: lines, pick: rand.IntN}, nil
}

// LoadQuotes reads a catalog file, or returns the embedded one when path is empty
func LoadQuotes(path string) (*Quotes, error) {
	if path == "" {
		return DefaultQuotes(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes file: %w", err)
	}
	return ParseQuotes(data)
}

// Random returns one quote
func (q *Quotes) Random() string {
	return q.lines[q.pick(len(q.lines))]
}

func (q *Quotes) Len() int {
	return len(q.lines)
}
