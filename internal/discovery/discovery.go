// Package discovery runs the paginated keyword search that seeds the pipeline.
// Pages are fetched until the target count is reached or the cursor runs out;
// detail records are fetched in one batched call per page.
package discovery

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/youtube"
)

// shortFormIndicators reject obvious short-form uploads by title/description
// token match. Order matters for nothing; containment is checked as-is.
var shortFormIndicators = []string{
	"#shorts", "#short", "#Shorts", "#Short", "shorts", "Shorts", "쇼츠",
}

const (
	defaultPageSize  = 50
	defaultPagePause = 500 * time.Millisecond
)

// Candidate is one discovered item carrying the detail fields later stages
// filter on. Immutable once produced.
type Candidate struct {
	ID          string
	Title       string
	ChannelName string
	ChannelID   string

	Description     string
	CategoryID      string
	PublishedAt     time.Time
	DurationSeconds int
	ViewCount       int64
	LikeCount       int64
}

// URL returns the canonical watch link.
func (c Candidate) URL() string {
	return "https://www.youtube.com/watch?v=" + c.ID
}

// SearchService is the slice of the video API discovery needs.
type SearchService interface {
	SearchPage(ctx context.Context, query, pageToken string, maxResults int) (youtube.SearchPage, error)
	VideoDetails(ctx context.Context, ids []string) ([]youtube.VideoDetail, error)
}

// Params control one discovery run.
type Params struct {
	Keyword            string
	TargetCount        int
	ExcludeShortForm   bool
	MinDurationSeconds int
}

// Discovery pages through search results for a keyword.
type Discovery struct {
	Service   SearchService
	Log       *logrus.Entry
	PageSize  int
	PagePause time.Duration
}

// New builds a discovery with the standard page size and inter-page pause.
func New(service SearchService, log *logrus.Entry) *Discovery {
	return &Discovery{
		Service:   service,
		Log:       log.WithField("component", "discovery"),
		PageSize:  defaultPageSize,
		PagePause: defaultPagePause,
	}
}

// Discover accumulates up to p.TargetCount candidates in service-relevance
// order. A call point that exhausts its retries ends the run with whatever was
// accumulated; partial results are valid. The error is non-nil only when the
// context ends the run.
func (d *Discovery) Discover(ctx context.Context, p Params) ([]Candidate, error) {
	query := p.Keyword
	if p.ExcludeShortForm {
		query += " -shorts"
	}

	var out []Candidate
	pageToken := ""
	for len(out) < p.TargetCount {
		page, err := d.Service.SearchPage(ctx, query, pageToken, d.PageSize)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			d.Log.WithError(err).Warn("search page failed, returning partial results")
			return out, nil
		}
		if len(page.VideoIDs) == 0 {
			break
		}

		details, err := d.Service.VideoDetails(ctx, page.VideoIDs)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			d.Log.WithError(err).Warn("detail batch failed, returning partial results")
			return out, nil
		}

		for _, det := range details {
			if len(out) >= p.TargetCount {
				break
			}
			if p.ExcludeShortForm && looksShortForm(det) {
				continue
			}
			// Duration 0 means unknown; only a known-short item is rejected.
			if p.MinDurationSeconds > 0 && det.DurationSeconds > 0 && det.DurationSeconds < p.MinDurationSeconds {
				continue
			}
			out = append(out, Candidate{
				ID:              det.ID,
				Title:           det.Title,
				ChannelName:     det.ChannelName,
				ChannelID:       det.ChannelID,
				Description:     det.Description,
				CategoryID:      det.CategoryID,
				PublishedAt:     det.PublishedAt,
				DurationSeconds: det.DurationSeconds,
				ViewCount:       det.ViewCount,
				LikeCount:       det.LikeCount,
			})
		}

		if page.NextPageToken == "" || len(out) >= p.TargetCount {
			break
		}
		pageToken = page.NextPageToken

		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(d.PagePause):
		}
	}

	d.Log.WithFields(logrus.Fields{
		"keyword": p.Keyword,
		"found":   len(out),
		"target":  p.TargetCount,
	}).Info("discovery finished")
	return out, nil
}

func looksShortForm(det youtube.VideoDetail) bool {
	for _, tok := range shortFormIndicators {
		if strings.Contains(det.Title, tok) || strings.Contains(det.Description, tok) {
			return true
		}
	}
	return false
}
