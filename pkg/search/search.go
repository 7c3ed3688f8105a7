package search

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/bft-labs/rawframe/internal/domain"
)

// LineWidth is the number of bytes per hex dump line and the unit of the
// scroll hint returned by Locate.
const LineWidth = 16

// Source is the byte range a search scans. *source.Source satisfies it.
type Source interface {
	Len() int64
	View(start, end int64, fn func([]byte) error) error
}

// ParsePattern strips all whitespace from s and decodes the remaining hex
// digits. It fails with InvalidPattern when nothing is left, the digit count
// is odd, or a non-hex character appears.
func ParsePattern(s string) ([]byte, error) {
	const op = "parse pattern"
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if clean == "" {
		return nil, domain.Errorf(domain.KindInvalidPattern, op, "pattern is empty")
	}
	if len(clean)%2 != 0 {
		return nil, domain.Errorf(domain.KindInvalidPattern, op,
			"pattern has an odd number of hex digits").With("digits", int64(len(clean)))
	}
	for i, r := range clean {
		if !isHex(r) {
			return nil, domain.Errorf(domain.KindInvalidPattern, op,
				"invalid hex character %q", r).With("position", int64(i))
		}
	}

	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, domain.Errorf(domain.KindInvalidPattern, op, "decode").Wrap(err)
	}
	return b, nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Search returns every offset at which the decoded pattern occurs in src, in
// ascending order. Overlapping occurrences are all reported. No match yields
// an empty, non-nil slice.
func Search(src Source, pattern string) ([]int64, error) {
	needle, err := ParsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return Bytes(src, needle)
}

// Bytes is Search with an already decoded needle.
func Bytes(src Source, needle []byte) ([]int64, error) {
	offsets := []int64{}
	if len(needle) == 0 {
		return offsets, nil
	}
	err := src.View(0, src.Len(), func(data []byte) error {
		offsets = scan(data, needle, offsets)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return offsets, nil
}

func scan(data, needle []byte, out []int64) []int64 {
	pos := 0
	for pos+len(needle) <= len(data) {
		i := bytes.Index(data[pos:], needle)
		if i < 0 {
			break
		}
		out = append(out, int64(pos+i))
		pos += i + 1
	}
	return out
}

// Result is the outcome of Locate.
type Result struct {
	Offsets []int64
	// First is the offset of the first match, or -1 when there is none.
	First int64
}

// Count is the number of matches.
func (r Result) Count() int { return len(r.Offsets) }

// Found reports whether anything matched.
func (r Result) Found() bool { return r.First >= 0 }

// Line is the dump line holding the first match, or -1.
func (r Result) Line() int64 {
	if r.First < 0 {
		return -1
	}
	return r.First / LineWidth
}

// Locate runs Search and records where the first match is, for a display
// that scrolls to it.
func Locate(src Source, pattern string) (Result, error) {
	offsets, err := Search(src, pattern)
	if err != nil {
		return Result{First: -1}, err
	}
	r := Result{Offsets: offsets, First: -1}
	if len(offsets) > 0 {
		r.First = offsets[0]
	}
	return r, nil
}
