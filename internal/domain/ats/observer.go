package ats

import (
	"log"
	"strconv"
	"strings"
)

type KeywordCount struct {
	Keyword string
	Count   int
}

type RoleSum struct {
	Role string
	Sum  int
}

// Trace is the intermediate state of one Analyze call.
type Trace struct {
	Category      string
	Mode          MatchMode
	TokenCount    int
	KeywordCounts []KeywordCount
	Highlighted   []string
	RoleSums      []RoleSum
	SuggestedRole string
}

// Observer receives diagnostics. Implementations must not retain or mutate
// the trace slices after returning.
type Observer interface {
	Observe(t Trace)
}

type ObserverFunc func(Trace)

func (f ObserverFunc) Observe(t Trace) { f(t) }

type LogObserver struct {
	logger *log.Logger
}

func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Observe(t Trace) {
	if o == nil || o.logger == nil {
		return
	}
	roles := make([]string, 0, len(t.RoleSums))
	for _, r := range t.RoleSums {
		roles = append(roles, r.Role+"="+strconv.Itoa(r.Sum))
	}
	o.logger.Printf(
		"ats_score category=%q mode=%s tokens=%d keywords=%d matched=%d skills=%q role_sums=[%s] suggested_role=%s",
		t.Category, t.Mode, t.TokenCount, len(t.KeywordCounts), len(t.Highlighted),
		strings.Join(t.Highlighted, ","), strings.Join(roles, " "), t.SuggestedRole,
	)
}
