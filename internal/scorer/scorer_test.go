package scorer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-scout-go/internal/collector"
	"creator-scout-go/internal/discovery"
	"creator-scout-go/internal/llm"
	"creator-scout-go/internal/retry"
)

type fakeCompleter struct {
	mu        sync.Mutex
	prompts   []string
	failWhen  func(prompt string) bool
	failCount int32
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()
	if f.failWhen != nil && f.failWhen(req.Prompt) {
		atomic.AddInt32(&f.failCount, 1)
		return "", errors.New("overloaded")
	}
	return "최종 추천 영상\n분석 결과", nil
}

func items(n int) []collector.EnrichedItem {
	out := make([]collector.EnrichedItem, n)
	for i := range out {
		out[i] = collector.EnrichedItem{
			Candidate: discovery.Candidate{
				ID:          fmt.Sprintf("v%d", i),
				Title:       fmt.Sprintf("영상 %d", i),
				ChannelName: fmt.Sprintf("ch%d", i),
			},
			SubscriberCount: 9000,
			Transcript:      "자막",
		}
	}
	return out
}

func testScorer(c llm.Completer) *Scorer {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	s := New(c, logrus.NewEntry(log))
	s.Policy = retry.Policy{MaxAttempts: 2, Interval: 0}
	return s
}

func TestPartitionCoversEveryItemOnce(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 10} {
		for _, size := range []int{1, 2, 3, 5} {
			batches := partition(items(n), size)

			want := (n + size - 1) / size
			assert.Len(t, batches, want, "n=%d size=%d", n, size)

			seen := map[string]int{}
			for _, b := range batches {
				assert.LessOrEqual(t, len(b), size)
				for _, item := range b {
					seen[item.ID]++
				}
			}
			assert.Len(t, seen, n)
			for id, count := range seen {
				assert.Equal(t, 1, count, "item %s", id)
			}
		}
	}
}

func TestScoreEmbedsItemFieldsInPrompt(t *testing.T) {
	c := &fakeCompleter{}
	s := testScorer(c)
	s.BatchSize = 10

	_, err := s.Score(context.Background(), "키워드: 미적분", items(2))
	require.NoError(t, err)
	require.Len(t, c.prompts, 1)
	p := c.prompts[0]
	assert.Contains(t, p, "키워드: 미적분")
	assert.Contains(t, p, "**영상 ID**: v0")
	assert.Contains(t, p, "**채널명**: ch1")
	assert.Contains(t, p, "https://www.youtube.com/watch?v=v1")
}

func TestScoreToleratesPartialBatchFailure(t *testing.T) {
	c := &fakeCompleter{failWhen: func(p string) bool {
		return strings.Contains(p, "**영상 ID**: v0")
	}}
	s := testScorer(c)

	out, err := s.Score(context.Background(), "", items(4))
	require.NoError(t, err)
	assert.Len(t, out, 1, "only the surviving batch contributes")
	assert.Equal(t, int32(2), atomic.LoadInt32(&c.failCount), "failed batch retried once under the two-attempt schedule")
}

func TestScoreAllBatchesFailedIsStageError(t *testing.T) {
	c := &fakeCompleter{failWhen: func(string) bool { return true }}
	s := testScorer(c)

	_, err := s.Score(context.Background(), "", items(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllBatchesFailed)
}

func TestScoreEmptyInput(t *testing.T) {
	out, err := testScorer(&fakeCompleter{}).Score(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
