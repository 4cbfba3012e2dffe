// Package pipeline sequences the run for one seed keyword through the strict
// Discovery → Collect → Scoring → Extraction → Done state machine. No stage
// is retried here; a stage's total failure moves the run to Failed with its
// reason, and per-stage progress is reported through a callback.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/collector"
	"creator-scout-go/internal/discovery"
	"creator-scout-go/internal/extract"
)

// Stage is one state of the run.
type Stage int

const (
	StageDiscovery Stage = iota
	StageCollect
	StageScoring
	StageExtraction
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageDiscovery:
		return "discovery"
	case StageCollect:
		return "collect"
	case StageScoring:
		return "scoring"
	case StageExtraction:
		return "extraction"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// ProgressFunc receives the current stage and its fraction in [0,1].
type ProgressFunc func(stage Stage, fraction float64)

// RunContext is the mutable state of one run, owned by the orchestrator for
// the run's lifetime and never shared across runs.
type RunContext struct {
	RunID      string
	Keyword    string
	Stage      Stage
	FailReason string

	Analysis       string
	SearchKeywords []string

	Searched    int
	Collected   int
	Scored      int
	Recommended int

	Recommendations []extract.Recommendation
}

// Insighter produces the analysis text and derived search keywords for a seed
// keyword.
type Insighter interface {
	Run(ctx context.Context, keyword string) (analysis string, keywords []string, err error)
}

// Discoverer pages through search results for one keyword.
type Discoverer interface {
	Discover(ctx context.Context, p discovery.Params) ([]discovery.Candidate, error)
}

// ItemCollector enriches and filters candidates up to a target count.
type ItemCollector interface {
	Collect(ctx context.Context, candidates []discovery.Candidate, target int, dedupe *collector.DedupeSet, params collector.FilterParams) []collector.EnrichedItem
}

// BatchScorer scores enriched items and returns the raw batch outputs.
type BatchScorer interface {
	Score(ctx context.Context, keywordsData string, items []collector.EnrichedItem) ([]string, error)
}

// Params tune one run.
type Params struct {
	TargetPerKeyword     int
	CandidatesPerKeyword int
	ExcludeShortForm     bool
	MinDurationSeconds   int
	MaxDurationSeconds   int
	MaxAgeDays           int
	MinSubscribers       int64
}

// Pipeline wires the stage components.
type Pipeline struct {
	Insight   Insighter
	Discovery Discoverer
	Collector ItemCollector
	Scorer    BatchScorer
	Log       *logrus.Entry
	Progress  ProgressFunc
}

func (p *Pipeline) report(stage Stage, fraction float64) {
	if p.Progress != nil {
		p.Progress(stage, fraction)
	}
}

func (p *Pipeline) fail(rc *RunContext, log *logrus.Entry, stage Stage, err error) (*RunContext, error) {
	rc.Stage = StageFailed
	rc.FailReason = fmt.Sprintf("%s: %v", stage, err)
	log.WithError(err).WithField("stage", stage.String()).Error("pipeline failed")
	return rc, fmt.Errorf("%s stage: %w", stage, err)
}

// Run executes the full state machine for one seed keyword. The dedupe set is
// shared across runs so channels claimed by earlier keywords stay claimed.
func (p *Pipeline) Run(ctx context.Context, keyword string, dedupe *collector.DedupeSet, params Params) (*RunContext, error) {
	rc := &RunContext{
		RunID:   uuid.New().String(),
		Keyword: keyword,
		Stage:   StageDiscovery,
	}
	log := p.Log.WithFields(logrus.Fields{"run_id": rc.RunID, "keyword": keyword})

	// Discovery: derive search keywords from viewer comments, then page
	// through results for each.
	p.report(StageDiscovery, 0)
	analysis, searchKeywords, err := p.Insight.Run(ctx, keyword)
	if err != nil {
		return p.fail(rc, log, StageDiscovery, err)
	}
	rc.Analysis = analysis
	rc.SearchKeywords = searchKeywords
	p.report(StageDiscovery, 0.3)

	candidatesByKeyword := make(map[string][]discovery.Candidate, len(searchKeywords))
	for i, kw := range searchKeywords {
		cands, err := p.Discovery.Discover(ctx, discovery.Params{
			Keyword:            kw,
			TargetCount:        params.CandidatesPerKeyword,
			ExcludeShortForm:   params.ExcludeShortForm,
			MinDurationSeconds: params.MinDurationSeconds,
		})
		if err != nil {
			return p.fail(rc, log, StageDiscovery, err)
		}
		candidatesByKeyword[kw] = cands
		rc.Searched += len(cands)
		p.report(StageDiscovery, 0.3+0.7*float64(i+1)/float64(len(searchKeywords)))
	}
	if rc.Searched == 0 {
		return p.fail(rc, log, StageDiscovery, fmt.Errorf("no candidates found for any search keyword"))
	}

	// Collect: enrich and filter per keyword, sharing the dedupe set.
	rc.Stage = StageCollect
	p.report(StageCollect, 0)
	filterParams := collector.FilterParams{
		MinSubscribers:     params.MinSubscribers,
		MaxAgeDays:         params.MaxAgeDays,
		MinDurationSeconds: params.MinDurationSeconds,
		MaxDurationSeconds: params.MaxDurationSeconds,
	}
	var items []collector.EnrichedItem
	for i, kw := range searchKeywords {
		collected := p.Collector.Collect(ctx, candidatesByKeyword[kw], params.TargetPerKeyword, dedupe, filterParams)
		items = append(items, collected...)
		p.report(StageCollect, float64(i+1)/float64(len(searchKeywords)))
	}
	rc.Collected = len(items)
	if len(items) == 0 {
		return p.fail(rc, log, StageCollect, fmt.Errorf("no candidates admitted"))
	}

	// Scoring.
	rc.Stage = StageScoring
	p.report(StageScoring, 0)
	rawTexts, err := p.Scorer.Score(ctx, analysis, items)
	if err != nil {
		return p.fail(rc, log, StageScoring, err)
	}
	p.report(StageScoring, 1)

	// Extraction: parse, rank, threshold.
	rc.Stage = StageExtraction
	p.report(StageExtraction, 0)
	parsed := extract.Extract(rawTexts)
	rc.Scored = len(parsed)
	rc.Recommendations = extract.AboveThreshold(parsed)
	rc.Recommended = len(rc.Recommendations)
	p.report(StageExtraction, 1)

	rc.Stage = StageDone
	p.report(StageDone, 1)
	log.WithFields(logrus.Fields{
		"searched":    rc.Searched,
		"collected":   rc.Collected,
		"scored":      rc.Scored,
		"recommended": rc.Recommended,
	}).Info("pipeline finished")
	return rc, nil
}
