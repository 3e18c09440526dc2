package extract

import (
	"bufio"
	"io"
	"sort"
	"strings"
	"unicode"
)

// TextTokensDistribution is an in-memory frequency table of lowercase
// tokens, used to reduce a document's full text down to a bag-of-keywords
// summary. Grounded on the original extractor's tokens.rs, with insertion
// order tracked separately so top_n ties break in first-seen order instead
// of Go's unspecified map iteration order.
type TextTokensDistribution struct {
	minLength int
	counts    map[string]int
	order     []string
}

// NewTextTokensDistribution returns an empty distribution that keeps only
// tokens at least minLength runes long.
func NewTextTokensDistribution(minLength int) *TextTokensDistribution {
	return &TextTokensDistribution{
		minLength: minLength,
		counts:    make(map[string]int),
	}
}

// Tokens splits line on any non-alphanumeric rune and returns the
// substrings at least minLength long.
func Tokens(line string, minLength int) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minLength {
			out = append(out, f)
		}
	}
	return out
}

// AddWord lowercases word and increments its count, recording first-seen
// order for stable tie-breaking. Words shorter than the distribution's
// minimum length are ignored.
func (d *TextTokensDistribution) AddWord(word string) {
	if len([]rune(word)) < d.minLength {
		return
	}
	word = strings.ToLower(word)
	if _, ok := d.counts[word]; !ok {
		d.order = append(d.order, word)
	}
	d.counts[word]++
}

// FromReader consumes r line by line, tokenizing each line into the
// distribution. Matches from_buffer's line-oriented reading so a single
// malformed line never aborts the whole document.
func FromReader(r io.Reader, minLength int) *TextTokensDistribution {
	d := NewTextTokensDistribution(minLength)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		for _, word := range Tokens(scanner.Text(), minLength) {
			d.AddWord(word)
		}
	}
	return d
}

type tokenCount struct {
	word  string
	count int
	rank  int
}

// TopN returns the n most frequent tokens, descending by count, ties broken
// by first-seen order.
func (d *TextTokensDistribution) TopN(n int) []string {
	entries := make([]tokenCount, 0, len(d.order))
	for i, word := range d.order {
		entries = append(entries, tokenCount{word: word, count: d.counts[word], rank: i})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].rank < entries[j].rank
	})
	if n < len(entries) {
		entries = entries[:n]
	}
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.word
	}
	return words
}

// ExportStringNth joins the top-n tokens with single spaces, in rank order.
// This is the only form of the distribution ever persisted: the counts
// themselves are discarded once this string is produced.
func (d *TextTokensDistribution) ExportStringNth(n int) string {
	return strings.Join(d.TopN(n), " ")
}
