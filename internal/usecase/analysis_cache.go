package usecase

import (
	"context"
	"encoding/hex"
	"time"

	"resume-ats/internal/domain/ats"

	"golang.org/x/crypto/blake2b"
)

type AnalysisCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type cachedScore struct {
	Category          string   `json:"category"`
	ATSScore          float64  `json:"ats_score"`
	HighlightedSkills []string `json:"highlighted_skills"`
	AllSkills         []string `json:"all_skills"`
	SuggestedRole     string   `json:"suggested_role"`
}

func DocumentHash(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// AnalysisCacheKey changes whenever the document, the keyword tables, the
// classifier model or the match mode change.
func AnalysisCacheKey(docHash, tablesFingerprint, modelFingerprint string, mode ats.MatchMode) string {
	if modelFingerprint == "" {
		modelFingerprint = "unknown"
	}
	return "ats:analysis:" + docHash + ":" + tablesFingerprint + ":" + modelFingerprint + ":" + mode.String()
}
