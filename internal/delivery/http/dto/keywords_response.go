package dto

import "resume-ats/internal/keywords"

type KeywordSetResponse struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type KeywordTablesResponse struct {
	Fingerprint string               `json:"fingerprint"`
	MatchMode   string               `json:"match_mode"`
	Categories  []KeywordSetResponse `json:"categories"`
	Roles       []KeywordSetResponse `json:"roles"`
}

func NewKeywordTablesResponse(t *keywords.Tables, mode string) KeywordTablesResponse {
	return KeywordTablesResponse{
		Fingerprint: t.Fingerprint(),
		MatchMode:   mode,
		Categories:  keywordSets(t.Categories()),
		Roles:       keywordSets(t.Roles()),
	}
}

func keywordSets(sets []keywords.KeywordSet) []KeywordSetResponse {
	out := make([]KeywordSetResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, KeywordSetResponse{Name: s.Name, Keywords: orEmpty(s.Keywords)})
	}
	return out
}
