// Package collector fans candidates out over a bounded worker pool, enriching
// each with channel statistics and a transcript, applying the admission filter
// and the channel dedupe set, and stopping once the target count is reached.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/discovery"
	"creator-scout-go/internal/youtube"
)

const defaultMaxWorkers = 3

// EnrichedItem is an admitted candidate plus the enrichment data scoring
// needs.
type EnrichedItem struct {
	discovery.Candidate
	SubscriberCount int64
	Transcript      string
}

// StatsService looks up channel statistics.
type StatsService interface {
	GetChannelStats(ctx context.Context, channelID string) (youtube.ChannelStats, error)
}

// BodyService fetches the full caption text of a video.
type BodyService interface {
	GetBody(ctx context.Context, videoID string) (string, error)
}

// Collector enriches and filters candidates concurrently.
type Collector struct {
	Stats      StatsService
	Body       BodyService
	Log        *logrus.Entry
	MaxWorkers int

	statsMu    sync.Mutex
	statsCache map[string]youtube.ChannelStats
}

// New builds a collector with the standard worker count.
func New(stats StatsService, body BodyService, log *logrus.Entry) *Collector {
	return &Collector{
		Stats:      stats,
		Body:       body,
		Log:        log.WithField("component", "collector"),
		MaxWorkers: defaultMaxWorkers,
		statsCache: make(map[string]youtube.ChannelStats),
	}
}

// Collect processes candidates under the worker pool and returns up to target
// admitted items in completion order. The dedupe set is mutated: every
// returned item's channel is claimed in it. Per-candidate failures are logged
// and drop only that candidate.
func (c *Collector) Collect(ctx context.Context, candidates []discovery.Candidate, target int, dedupe *DedupeSet, params FilterParams) []EnrichedItem {
	now := time.Now()

	items := runPool(ctx, candidates, c.MaxWorkers, target, func(ctx context.Context, cand discovery.Candidate) (EnrichedItem, bool) {
		return c.process(ctx, cand, now, dedupe, params)
	})

	c.Log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"collected":  len(items),
		"target":     target,
	}).Info("collection finished")
	return items
}

func (c *Collector) process(ctx context.Context, cand discovery.Candidate, now time.Time, dedupe *DedupeSet, params FilterParams) (EnrichedItem, bool) {
	log := c.Log.WithFields(logrus.Fields{"video_id": cand.ID, "channel": cand.ChannelName})

	// Cheap membership check before any fetch work; the authoritative claim
	// happens at acceptance.
	if dedupe.Contains(cand.ChannelName) {
		log.Debug("channel already claimed")
		return EnrichedItem{}, false
	}

	stats, err := c.channelStats(ctx, cand.ChannelID)
	if err != nil {
		log.WithError(err).Warn("channel stats unavailable, dropping candidate")
		return EnrichedItem{}, false
	}

	if ok, reason := Admit(cand, stats.SubscriberCount, now, params); !ok {
		log.WithField("reason", reason).Debug("candidate rejected")
		return EnrichedItem{}, false
	}

	body, err := c.Body.GetBody(ctx, cand.ID)
	if err != nil {
		log.WithError(err).Info("transcript unavailable, dropping candidate")
		return EnrichedItem{}, false
	}

	if !dedupe.Add(cand.ChannelName) {
		log.Debug("channel claimed by concurrent worker")
		return EnrichedItem{}, false
	}

	return EnrichedItem{
		Candidate:       cand,
		SubscriberCount: stats.SubscriberCount,
		Transcript:      body,
	}, true
}

// channelStats memoizes lookups for the duration of one run.
func (c *Collector) channelStats(ctx context.Context, channelID string) (youtube.ChannelStats, error) {
	c.statsMu.Lock()
	cached, ok := c.statsCache[channelID]
	c.statsMu.Unlock()
	if ok {
		return cached, nil
	}

	stats, err := c.Stats.GetChannelStats(ctx, channelID)
	if err != nil {
		return youtube.ChannelStats{}, err
	}

	c.statsMu.Lock()
	c.statsCache[channelID] = stats
	c.statsMu.Unlock()
	return stats, nil
}
