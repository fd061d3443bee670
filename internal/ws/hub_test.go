package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	"resume-ats/internal/domain/analysis"

	"github.com/google/uuid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestNotifierBroadcastsAnalysisCompleted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(log.New(io.Discard, "", 0))
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(client)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	id := uuid.New()
	NewNotifier(hub).NotifyAnalysisCompleted(analysis.Analysis{
		ID:                id,
		Filename:          "cv.pdf",
		Category:          "engineering",
		ATSScore:          0.3,
		HighlightedSkills: []string{"python"},
		SuggestedRole:     "software_developer",
		CreatedAt:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	select {
	case msg := <-client.send:
		var evt AnalysisCompletedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Type != "analysis_completed" || evt.ID != id.String() || evt.Timestamp != "2024-01-02T03:04:05Z" {
			t.Fatalf("unexpected event %+v", evt)
		}
		if len(evt.Skills) != 1 || evt.Skills[0] != "python" {
			t.Fatalf("unexpected skills %v", evt.Skills)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(log.New(io.Discard, "", 0))
	go hub.Run(ctx)

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast([]byte("x"))
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	if _, ok := <-slow.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(log.New(io.Discard, "", 0))
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-done
	if hub.ClientCount() != 0 {
		t.Fatalf("expected no clients after shutdown")
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.NotifyAnalysisCompleted(analysis.Analysis{})
	NewNotifier(nil).NotifyAnalysisCompleted(analysis.Analysis{})
}

func TestHandlerCheckOrigin(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "wildcard", allowed: []string{"*"}, origin: "https://evil.example", want: true},
		{name: "none configured", origin: "https://any.example", want: true},
		{name: "listed", allowed: []string{"https://app.example/"}, origin: "https://APP.example", want: true},
		{name: "not listed", allowed: []string{"https://app.example"}, origin: "https://evil.example", want: false},
		{name: "no origin header", allowed: []string{"https://app.example"}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(NewHub(logger), logger, tc.allowed...)
			r := httptest.NewRequest("GET", "/ws/analyses", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := h.checkOrigin(r); got != tc.want {
				t.Fatalf("checkOrigin(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}
