package dto

import (
	"time"

	"resume-ats/internal/domain/analysis"
)

// PredictResponse is the flat body of POST /predict.
type PredictResponse struct {
	Category          string   `json:"category"`
	ATSScore          float64  `json:"ats_score"`
	HighlightedSkills []string `json:"highlighted_skills"`
	SuggestedRole     string   `json:"suggested_role"`
	AllSkills         []string `json:"all_skills"`
}

type AnalysisResponse struct {
	ID                string    `json:"id"`
	Filename          string    `json:"filename"`
	Category          string    `json:"category"`
	ATSScore          float64   `json:"ats_score"`
	HighlightedSkills []string  `json:"highlighted_skills"`
	SuggestedRole     string    `json:"suggested_role"`
	AllSkills         []string  `json:"all_skills"`
	MatchMode         string    `json:"match_mode"`
	CreatedAt         time.Time `json:"created_at"`
}

type AnalysisListResponse struct {
	Items  []AnalysisResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type AnalysisListQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

func NewPredictResponse(a analysis.Analysis) PredictResponse {
	return PredictResponse{
		Category:          a.Category,
		ATSScore:          a.ATSScore,
		HighlightedSkills: orEmpty(a.HighlightedSkills),
		SuggestedRole:     a.SuggestedRole,
		AllSkills:         orEmpty(a.AllSkills),
	}
}

func NewAnalysisResponse(a analysis.Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:                a.ID.String(),
		Filename:          a.Filename,
		Category:          a.Category,
		ATSScore:          a.ATSScore,
		HighlightedSkills: orEmpty(a.HighlightedSkills),
		SuggestedRole:     a.SuggestedRole,
		AllSkills:         orEmpty(a.AllSkills),
		MatchMode:         a.MatchMode,
		CreatedAt:         a.CreatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
