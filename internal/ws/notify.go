package ws

import (
	"encoding/json"
	"time"

	"resume-ats/internal/domain/analysis"
)

type AnalysisCompletedEvent struct {
	Type          string   `json:"type"`
	ID            string   `json:"id"`
	Filename      string   `json:"filename"`
	Category      string   `json:"category"`
	ATSScore      float64  `json:"ats_score"`
	SuggestedRole string   `json:"suggested_role"`
	Skills        []string `json:"highlighted_skills"`
	Timestamp     string   `json:"timestamp"`
}

// Notifier publishes finished analyses to every websocket subscriber.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyAnalysisCompleted(a analysis.Analysis) {
	if n == nil || n.hub == nil {
		return
	}

	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	skills := a.HighlightedSkills
	if skills == nil {
		skills = []string{}
	}

	evt := AnalysisCompletedEvent{
		Type:          analysis.EventCompleted,
		ID:            a.ID.String(),
		Filename:      a.Filename,
		Category:      a.Category,
		ATSScore:      a.ATSScore,
		SuggestedRole: a.SuggestedRole,
		Skills:        skills,
		Timestamp:     ts.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.hub.logger.Printf("WS event marshal error | error=%v", err)
		return
	}

	n.hub.Broadcast(b)
}
