package analysis

import (
	"time"

	"github.com/google/uuid"
)

type Analysis struct {
	ID                uuid.UUID
	Filename          string
	DocumentHash      string
	Category          string
	ATSScore          float64
	HighlightedSkills []string
	AllSkills         []string
	SuggestedRole     string
	MatchMode         string
	Subject           string
	CreatedAt         time.Time
}

const EventCompleted = "analysis_completed"
