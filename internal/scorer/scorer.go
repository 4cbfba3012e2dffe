// Package scorer sends enriched items to the LLM in fixed-size batches,
// processed in waves of bounded concurrency. A failed batch degrades the
// output; only all batches failing fails the stage.
package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/collector"
	"creator-scout-go/internal/llm"
	"creator-scout-go/internal/retry"
)

// ErrAllBatchesFailed means no batch produced output; the stage has nothing
// to hand to extraction.
var ErrAllBatchesFailed = errors.New("scorer: all batches failed")

const (
	defaultBatchSize  = 2
	defaultMaxWorkers = 3
	maxTokens         = 8000
	temperature       = 0.4

	systemPrompt = "당신은 유튜브 댓글에서 추출한 핵심 키워드와 크롤링한 여러 유튜브 영상 스크립트 사이의 일치점을 찾는 전문가입니다."

	promptHeader = `아래 핵심 키워드 데이터와 영상 스크립트들을 비교 분석하여, 각 영상이 키워드가 드러내는
시청자의 결핍과 니즈를 얼마나 잘 해소하는지 평가해 주세요.

각 영상에 대해 다음 기준으로 점수를 매겨 주세요:
- 교육 콘텐츠 점수 (0~10)
- 교육자/경험 전달자 점수 (0~10)
- 키워드 매칭 (0~10), 발화 유사성 (0~100%), 결핍-솔루션 (0~10)

분석이 끝나면 반드시 "최종 추천 영상" 섹션을 아래 형식 그대로 작성해 주세요:

[영상ID] - 영상 제목 - 종합 점수: X.X/10
* 링크: https://www.youtube.com/watch?v=영상ID
* 채널: 채널명
* 콘텐츠 유형: 유형
* 주요 키워드: 키워드1, 키워드2
* 교육 콘텐츠 점수: X.X/10 | 교육자/경험 전달자 점수: X.X/10
* 키워드 매칭: X.X/10 | 발화 유사성: XX% | 결핍-솔루션: X.X/10
* 주요 결핍 유형: 유형1, 유형2

<인사이트>
해당 영상이 시청자 결핍을 어떻게 해소하는지에 대한 분석

## 핵심 키워드 데이터
`
)

// Scorer batches items and scores them through the completion service.
type Scorer struct {
	LLM        llm.Completer
	Log        *logrus.Entry
	BatchSize  int
	MaxWorkers int
	// Policy is the per-batch schedule; deliberately tighter than the
	// general remote-call policy.
	Policy retry.Policy
}

// New builds a scorer with the standard batch size, wave width and two-attempt
// retry schedule.
func New(completer llm.Completer, log *logrus.Entry) *Scorer {
	return &Scorer{
		LLM:        completer,
		Log:        log.WithField("component", "scorer"),
		BatchSize:  defaultBatchSize,
		MaxWorkers: defaultMaxWorkers,
		Policy:     retry.Policy{MaxAttempts: 2, Interval: 2 * time.Second},
	}
}

// partition splits items into ordered batches of at most size, covering every
// item exactly once.
func partition(items []collector.EnrichedItem, size int) [][]collector.EnrichedItem {
	if size < 1 {
		size = 1
	}
	var batches [][]collector.EnrichedItem
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// Score processes the items in waves and returns the raw text of every batch
// that succeeded, in completion order. Output order carries no ranking;
// extraction restores ranking from the score field.
func (s *Scorer) Score(ctx context.Context, keywordsData string, items []collector.EnrichedItem) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	batches := partition(items, s.BatchSize)
	s.Log.WithFields(logrus.Fields{
		"items":   len(items),
		"batches": len(batches),
	}).Info("starting batch scoring")

	var (
		mu      sync.Mutex
		outputs []string
	)
	for wave := 0; wave < len(batches); wave += s.MaxWorkers {
		end := wave + s.MaxWorkers
		if end > len(batches) {
			end = len(batches)
		}

		var wg sync.WaitGroup
		for i := wave; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				text, err := s.scoreBatch(ctx, keywordsData, batches[idx])
				if err != nil {
					s.Log.WithError(err).WithField("batch", idx+1).Warn("batch failed, continuing without it")
					return
				}
				mu.Lock()
				outputs = append(outputs, text)
				mu.Unlock()
			}(i)
		}
		wg.Wait()
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("%d batches: %w", len(batches), ErrAllBatchesFailed)
	}
	s.Log.WithFields(logrus.Fields{
		"succeeded": len(outputs),
		"batches":   len(batches),
	}).Info("batch scoring finished")
	return outputs, nil
}

func (s *Scorer) scoreBatch(ctx context.Context, keywordsData string, batch []collector.EnrichedItem) (string, error) {
	prompt := buildPrompt(keywordsData, batch)
	return retry.Do(s.Policy, func() (string, error) {
		return s.LLM.Complete(ctx, llm.Request{
			System:      systemPrompt,
			Prompt:      prompt,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
	})
}

func buildPrompt(keywordsData string, batch []collector.EnrichedItem) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString(keywordsData)
	sb.WriteString("\n\n## 영상 스크립트 데이터\n")
	for _, item := range batch {
		transcript := item.Transcript
		if transcript == "" {
			transcript = "No transcript available"
		}
		fmt.Fprintf(&sb, `
**영상 ID**: %s
**채널명**: %s
**영상 제목**: %s
**카테고리**: %s
**영상 링크**: %s
**조회수**: %d
**스크립트**: %s

`, item.ID, item.ChannelName, item.Title, orUnknown(item.CategoryID), item.URL(), item.ViewCount, transcript)
	}
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
