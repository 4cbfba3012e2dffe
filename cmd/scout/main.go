package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/collector"
	"creator-scout-go/internal/config"
	"creator-scout-go/internal/discovery"
	"creator-scout-go/internal/extract"
	"creator-scout-go/internal/insight"
	"creator-scout-go/internal/llm"
	"creator-scout-go/internal/logger"
	"creator-scout-go/internal/pipeline"
	"creator-scout-go/internal/scorer"
	"creator-scout-go/internal/store"
	"creator-scout-go/internal/transcript"
	"creator-scout-go/internal/youtube"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "creator-scout").Info("starting runner")

	cfg := config.Load()
	if cfg.YouTube.APIKey == "" {
		log.Fatal("YOUTUBE_API_KEY not configured")
	}
	if cfg.LLM.APIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY not configured")
	}
	if cfg.Workbook.Path == "" {
		log.Fatal("SCOUT_WORKBOOK not configured")
	}

	wb, err := store.Open(cfg.Workbook.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open workbook")
	}
	defer wb.Close()

	claimed, err := wb.ClaimedChannels()
	if err != nil {
		log.WithError(err).Fatal("failed to read claimed channels")
	}
	dedupe := collector.NewDedupeSet(claimed)
	log.WithField("claimed_channels", len(claimed)).Info("dedupe set seeded")

	entries, err := wb.Keywords()
	if err != nil {
		log.WithError(err).Fatal("failed to read keyword worklist")
	}

	yt := youtube.NewClient(cfg.YouTube.APIKey)
	completer := llm.NewClient(cfg.LLM.APIKey)
	if cfg.LLM.Model != "" {
		completer.Model = cfg.LLM.Model
	}

	baseLog := log.WithField("service", "creator-scout")
	col := collector.New(yt, transcript.NewFetcher(), baseLog)
	col.MaxWorkers = cfg.Pipeline.MaxWorkers
	sc := scorer.New(completer, baseLog)
	sc.BatchSize = cfg.Pipeline.BatchSize
	sc.MaxWorkers = cfg.Pipeline.ScoringWorkers

	pipe := &pipeline.Pipeline{
		Insight:   insight.New(yt, completer, baseLog),
		Discovery: discovery.New(yt, baseLog),
		Collector: col,
		Scorer:    sc,
		Log:       baseLog,
	}
	params := pipeline.Params{
		TargetPerKeyword:     cfg.Pipeline.TargetPerKeyword,
		CandidatesPerKeyword: 50,
		ExcludeShortForm:     cfg.Pipeline.ExcludeShortForm,
		MinDurationSeconds:   cfg.Pipeline.MinDurationSeconds,
		MaxDurationSeconds:   cfg.Pipeline.MaxDurationSeconds,
		MaxAgeDays:           cfg.Pipeline.MaxAgeDays,
		MinSubscribers:       cfg.Pipeline.MinSubscribers,
	}

	ctx := context.Background()
	processed := 0
	for _, entry := range entries {
		if entry.Status == store.StatusDone {
			continue
		}
		runLog := logger.New().WithRun(entry.Keyword)

		if err := wb.UpdateKeywordStatus(entry.Row, store.StatusProcessing); err != nil {
			runLog.WithError(err).Error("failed to mark keyword processing")
			continue
		}

		rc, err := pipe.Run(ctx, entry.Keyword, dedupe, params)
		if err != nil {
			runLog.WithError(err).Error("run failed")
			if err := wb.UpdateKeywordStatus(entry.Row, store.FailureStatus(rc.FailReason)); err != nil {
				runLog.WithError(err).Error("failed to record failure status")
			}
			continue
		}

		rows := make([]store.ResultRow, 0, len(rc.Recommendations))
		for _, rec := range rc.Recommendations {
			rows = append(rows, store.ResultRow{
				Channel:         rec.Channel,
				URL:             rec.URL,
				MatchingExcerpt: extract.FormatEntry(rec),
			})
		}
		if err := wb.AppendResults(rows); err != nil {
			runLog.WithError(err).Error("failed to append results")
			if err := wb.UpdateKeywordStatus(entry.Row, store.FailureStatus("result write failed")); err != nil {
				runLog.WithError(err).Error("failed to record failure status")
			}
			continue
		}
		if err := wb.UpdateKeywordStatus(entry.Row, store.StatusDone); err != nil {
			runLog.WithError(err).Error("failed to mark keyword done")
			continue
		}
		processed++
		runLog.WithFields(logrus.Fields{
			"searched":    rc.Searched,
			"collected":   rc.Collected,
			"scored":      rc.Scored,
			"recommended": rc.Recommended,
		}).Info("keyword done")
	}

	log.WithField("keywords_processed", processed).Info("runner finished")
}
