package ats

import "strings"

// WordFrequency counts token occurrences over one normalized text. It is
// built once per scoring pass and only read afterwards.
type WordFrequency struct {
	tokens []string
	counts map[string]int
}

func CountWords(normalized string) WordFrequency {
	tokens := Tokens(normalized)
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return WordFrequency{tokens: tokens, counts: counts}
}

func (f WordFrequency) Len() int {
	return len(f.tokens)
}

// Count returns how often keyword occurs as a single token. A keyword that
// contains whitespace can never be a token and always counts 0.
func (f WordFrequency) Count(keyword string) int {
	return f.counts[keyword]
}

// PhraseCount counts keyword as a contiguous sequence of tokens, splitting
// it on whitespace. Single-word keywords behave like Count.
func (f WordFrequency) PhraseCount(keyword string) int {
	parts := strings.Fields(keyword)
	switch len(parts) {
	case 0:
		return 0
	case 1:
		return f.counts[parts[0]]
	}

	n := 0
	for i := 0; i+len(parts) <= len(f.tokens); i++ {
		if f.tokens[i] != parts[0] {
			continue
		}
		match := true
		for j := 1; j < len(parts); j++ {
			if f.tokens[i+j] != parts[j] {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}
