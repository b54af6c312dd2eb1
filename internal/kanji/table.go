// Package kanji maps traditional kanji forms to their modern equivalents
package kanji

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPairs are the traditional/modern pairs found in the gagaku manuscripts
var DefaultPairs = [][2]string{
	{"樂", "楽"},
	{"龍", "竜"},
	{"壹", "壱"},
	{"絃", "弦"},
}

// Table is a one-to-one character substitution table. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	pairs map[rune]rune
	order []rune // insertion order for List
}

// NewTable creates a Table seeded with DefaultPairs
func NewTable() *Table {
	t := &Table{pairs: make(map[rune]rune)}
	for _, p := range DefaultPairs {
		_ = t.Add(p[0], p[1])
	}
	return t
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", field, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Get returns the modern form of a traditional character
func (t *Table) Get(old string) (string, bool) {
	r, err := singleRune("old", old)
	if err != nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.pairs[r]
	if !ok {
		return "", false
	}
	return string(n), true
}

// Add registers or replaces a pair. Both sides must be single characters.
func (t *Table) Add(old, modern string) error {
	o, err := singleRune("old", old)
	if err != nil {
		return err
	}
	n, err := singleRune("new", modern)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.pairs[o]; !exists {
		t.order = append(t.order, o)
	}
	t.pairs[o] = n
	return nil
}

// AddAll registers every pair of a map, as loaded from configuration
func (t *Table) AddAll(pairs map[string]string) error {
	for old, modern := range pairs {
		if err := t.Add(old, modern); err != nil {
			return err
		}
	}
	return nil
}

// Reset restores the default pairs and then registers pairs.
// On error the table is left unchanged.
func (t *Table) Reset(pairs map[string]string) error {
	next := NewTable()
	if err := next.AddAll(pairs); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pairs = next.pairs
	t.order = next.order
	return nil
}

// Len returns the number of pairs
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pairs)
}

// Pairs returns the pairs in insertion order
func (t *Table) Pairs() [][2]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([][2]string, 0, len(t.order))
	for _, o := range t.order {
		out = append(out, [2]string{string(o), string(t.pairs[o])})
	}
	return out
}

// List renders the table for humans, one pair per line with a total
func (t *Table) List() string {
	rule := strings.Repeat("=", 50)
	pairs := t.Pairs()

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "旧字正規化設定:")
	fmt.Fprintln(&b, rule)
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s → %s\n", p[0], p[1])
	}
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "合計: %d ペア\n", len(pairs))
	fmt.Fprintln(&b, rule)
	return b.String()
}

// Transformer returns a transformer that composes to NFC and then substitutes pairs.
// It captures the table contents at call time.
func (t *Table) Transformer() transform.Transformer {
	t.mu.RLock()
	snapshot := make(map[rune]rune, len(t.pairs))
	for o, n := range t.pairs {
		snapshot[o] = n
	}
	t.mu.RUnlock()

	return transform.Chain(norm.NFC, runes.Map(func(r rune) rune {
		if n, ok := snapshot[r]; ok {
			return n
		}
		return r
	}))
}

// Normalize rewrites every traditional character in s
func (t *Table) Normalize(s string) string {
	out, _, err := transform.String(t.Transformer(), s)
	if err != nil {
		return s
	}
	return out
}
