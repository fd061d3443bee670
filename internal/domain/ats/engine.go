package ats

import (
	"resume-ats/internal/keywords"
)

// NoRole is returned by SuggestRole when no role scores above zero.
const NoRole = "none"

type MatchMode int

const (
	// MatchTokens looks keywords up as single tokens. Keywords containing a
	// space, such as "machine learning", never match.
	MatchTokens MatchMode = iota
	// MatchPhrases counts multi-word keywords as contiguous token sequences.
	MatchPhrases
)

func (m MatchMode) String() string {
	if m == MatchPhrases {
		return "phrases"
	}
	return "tokens"
}

type Result struct {
	AverageMatchRatio float64
	HighlightedSkills []string
	AllSkills         []string
	SuggestedRole     string
}

type Engine struct {
	tables   *keywords.Tables
	mode     MatchMode
	observer Observer
}

type Option func(*Engine)

func WithMatchMode(m MatchMode) Option {
	return func(e *Engine) { e.mode = m }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

func NewEngine(tables *keywords.Tables, opts ...Option) *Engine {
	e := &Engine{tables: tables, mode: MatchTokens}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *Engine) Mode() MatchMode {
	return e.mode
}

func (e *Engine) Tables() *keywords.Tables {
	return e.tables
}

// Score matches the category keyword list against normalized text. It never
// fails: unknown categories and empty text produce a zero ratio and no skills.
// SuggestedRole is left empty; see SuggestRole and Analyze.
func (e *Engine) Score(normalized, category string) Result {
	freq := CountWords(normalized)
	res, _ := e.score(freq, category)
	return res
}

// SuggestRole returns the role whose keywords occur most often in the text.
// Ties go to the role listed first; NoRole when every sum is zero.
func (e *Engine) SuggestRole(normalized string) string {
	role, _ := e.suggest(CountWords(normalized))
	return role
}

// Analyze runs Score and SuggestRole over a single frequency map.
func (e *Engine) Analyze(normalized, category string) Result {
	freq := CountWords(normalized)
	res, counts := e.score(freq, category)
	role, sums := e.suggest(freq)
	res.SuggestedRole = role

	if e.observer != nil {
		e.observer.Observe(Trace{
			Category:      category,
			Mode:          e.mode,
			TokenCount:    freq.Len(),
			KeywordCounts: counts,
			Highlighted:   append([]string(nil), res.HighlightedSkills...),
			RoleSums:      sums,
			SuggestedRole: role,
		})
	}
	return res
}

func (e *Engine) count(freq WordFrequency, keyword string) int {
	if e.mode == MatchPhrases {
		return freq.PhraseCount(keyword)
	}
	return freq.Count(keyword)
}

func (e *Engine) score(freq WordFrequency, category string) (Result, []KeywordCount) {
	kws := e.tables.Category(category)

	counts := make([]KeywordCount, 0, len(kws))
	highlighted := make([]string, 0, len(kws))
	for _, kw := range kws {
		n := e.count(freq, kw)
		counts = append(counts, KeywordCount{Keyword: kw, Count: n})
		if n > 0 {
			highlighted = append(highlighted, kw)
		}
	}

	ratio := 0.0
	if len(kws) > 0 {
		ratio = float64(len(highlighted)) / float64(len(kws))
	}

	all := make([]string, len(highlighted))
	copy(all, highlighted)

	return Result{
		AverageMatchRatio: ratio,
		HighlightedSkills: highlighted,
		AllSkills:         all,
	}, counts
}

func (e *Engine) suggest(freq WordFrequency) (string, []RoleSum) {
	roles := e.tables.Roles()
	sums := make([]RoleSum, 0, len(roles))

	best := NoRole
	bestSum := 0
	for _, r := range roles {
		sum := 0
		for _, kw := range r.Keywords {
			sum += e.count(freq, kw)
		}
		sums = append(sums, RoleSum{Role: r.Name, Sum: sum})
		if sum > bestSum {
			best, bestSum = r.Name, sum
		}
	}
	return best, sums
}
