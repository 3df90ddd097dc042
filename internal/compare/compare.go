// Package compare exposes the query interface: fetch all sources, match
// the two configured comparison sides, and report the price deltas.
package compare

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pricepulse/compare-cli/internal/match"
	"github.com/pricepulse/compare-cli/internal/model"
	"github.com/pricepulse/compare-cli/internal/orchestrator"
)

// ValidationError marks caller-input failures that are surfaced directly
// and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// SourceStatus summarizes one source's pipeline outcome for the report.
type SourceStatus struct {
	Records   int             `json:"records"`
	Cached    bool            `json:"cached,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind model.ErrorKind `json:"error_kind,omitempty"`
}

// Report is the result of one comparison query. A report is produced from
// whichever sources succeeded; AllFailed flags the degenerate case without
// turning it into a hard error.
type Report struct {
	Searched    string                  `json:"searched"`
	Comparisons []model.Comparison      `json:"comparisons"`
	Sources     map[string]SourceStatus `json:"sources"`
	AllFailed   bool                    `json:"all_sources_failed,omitempty"`
	DurationMs  int64                   `json:"duration_ms"`
}

// Service runs comparison queries against a fetch orchestrator.
type Service struct {
	orch      *orchestrator.Orchestrator
	left      string
	right     string
	threshold int
}

// New creates a comparison service matching records of source left against
// source right. Both must be configured on the orchestrator.
func New(orch *orchestrator.Orchestrator, left, right string, threshold int) (*Service, error) {
	if threshold <= 0 {
		threshold = match.DefaultThreshold
	}
	if left == right {
		return nil, eris.Errorf("compare: left and right side are both %q", left)
	}
	configured := make(map[string]bool)
	for _, name := range orch.Sources() {
		configured[name] = true
	}
	for _, side := range []string{left, right} {
		if !configured[side] {
			return nil, eris.Errorf("compare: side %q is not a configured source", side)
		}
	}
	return &Service{orch: orch, left: left, right: right, threshold: threshold}, nil
}

// Compare fetches all sources for query and matches the left side against
// the right side. An empty or whitespace-only query is rejected with a
// ValidationError before any fetch is attempted.
func (s *Service) Compare(ctx context.Context, query string) (*Report, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Msg: "query must not be empty"}
	}

	start := time.Now()
	results := s.orch.FetchAll(ctx, query)

	report := &Report{
		Searched:    query,
		Comparisons: match.Match(results[s.left].Records, results[s.right].Records, s.threshold),
		Sources:     make(map[string]SourceStatus, len(results)),
		AllFailed:   len(results) > 0,
	}
	for name, res := range results {
		status := SourceStatus{
			Records: len(res.Records),
			Cached:  res.Cached,
		}
		if res.Err != nil {
			status.Error = res.Err.Error()
			status.ErrorKind = res.ErrKind
		} else {
			report.AllFailed = false
		}
		report.Sources[name] = status
	}
	report.DurationMs = time.Since(start).Milliseconds()

	zap.L().Info("comparison complete",
		zap.String("query", query),
		zap.Int("matches", len(report.Comparisons)),
		zap.Bool("all_failed", report.AllFailed),
		zap.Int64("duration_ms", report.DurationMs),
	)
	return report, nil
}
