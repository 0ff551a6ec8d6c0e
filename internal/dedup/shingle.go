package dedup

import "strings"

// splits normalized text into overlapping character n-grams
type Shingler struct {
	size int
}

// creates a shingler producing n-character shingles
func NewShingler(n int) (*Shingler, error) {
	if n <= 0 {
		return nil, invalid("ngram_size", n, "must be positive")
	}

	return &Shingler{size: n}, nil
}

// returns the shingle length
func (s *Shingler) Size() int {
	return s.size
}

// lower-cases the text and drops every whitespace rune.
// not word-boundary aware: "a b" and "ab" normalize identically.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), "")
}

// returns the distinct shingles of the normalized text in first-occurrence order.
// text shorter than the shingle size after normalization yields no shingles.
func (s *Shingler) Shingles(text string) []string {
	runes := []rune(Normalize(text))
	if len(runes) < s.size {
		return nil
	}

	count := len(runes) - s.size + 1
	seen := make(map[string]struct{}, count)
	shingles := make([]string, 0, count)

	for i := 0; i < count; i++ {
		shingle := string(runes[i : i+s.size])
		if _, dup := seen[shingle]; dup {
			continue
		}

		seen[shingle] = struct{}{}
		shingles = append(shingles, shingle)
	}

	return shingles
}
