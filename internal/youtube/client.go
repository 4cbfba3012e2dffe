// Package youtube is a thin Data API v3 client covering the four call points
// the pipeline needs: keyword search pages, batched video details, channel
// statistics and comment threads. Every call composes with the fixed-interval
// retry policy; quota/permission errors are permanent, 5xx and transport
// errors are transient.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"creator-scout-go/internal/retry"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrNotFound reports a valid empty lookup result (missing channel or video),
// distinct from a transient failure.
var ErrNotFound = errors.New("youtube: not found")

// Client calls the Data API v3.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Policy     retry.Policy
}

// NewClient builds a client with the default endpoint and retry policy.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Policy:     retry.Default,
	}
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("youtube api %d: %s", e.Status, e.Body)
}

func (c *Client) get(ctx context.Context, resource string, params url.Values, target any) error {
	params.Set("key", c.APIKey)
	endpoint := c.BaseURL + "/" + resource + "?" + params.Encode()

	_, err := retry.Do(c.Policy, func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return struct{}{}, retry.Permanent(err)
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			apiErr := &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			if resp.StatusCode >= 500 {
				return struct{}{}, apiErr
			}
			return struct{}{}, retry.Permanent(apiErr)
		}
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return struct{}{}, fmt.Errorf("decode %s response: %w", resource, err)
		}
		return struct{}{}, nil
	})
	return err
}

// SearchPage requests one page of video search results in relevance order.
func (c *Client) SearchPage(ctx context.Context, query, pageToken string, maxResults int) (SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("part", "id,snippet")
	params.Set("type", "video")
	params.Set("relevanceLanguage", "ko")
	params.Set("maxResults", strconv.Itoa(maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp searchResp
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return SearchPage{}, fmt.Errorf("search page: %w", err)
	}

	page := SearchPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.ID.Kind != "youtube#video" || item.ID.VideoID == "" {
			continue
		}
		page.VideoIDs = append(page.VideoIDs, item.ID.VideoID)
	}
	return page, nil
}

// VideoDetails fetches detail records for all ids in one batched call,
// preserving the order the API returns.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp videosResp
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	details := make([]VideoDetail, 0, len(resp.Items))
	for _, item := range resp.Items {
		d := VideoDetail{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			ChannelName:     item.Snippet.ChannelTitle,
			ChannelID:       item.Snippet.ChannelID,
			CategoryID:      item.Snippet.CategoryID,
			DurationSeconds: ParseDuration(item.ContentDetails.Duration),
		}
		if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			d.PublishedAt = ts
		}
		d.ViewCount, _ = strconv.ParseInt(item.Statistics.ViewCount, 10, 64)
		d.LikeCount, _ = strconv.ParseInt(item.Statistics.LikeCount, 10, 64)
		details = append(details, d)
	}
	return details, nil
}

// GetChannelStats looks up subscriber statistics for one channel. A missing
// channel is ErrNotFound; private subscriber counts read as zero.
func (c *Client) GetChannelStats(ctx context.Context, channelID string) (ChannelStats, error) {
	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", channelID)

	var resp channelsResp
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return ChannelStats{}, fmt.Errorf("channel stats: %w", err)
	}
	if len(resp.Items) == 0 {
		return ChannelStats{}, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
	}

	subs, _ := strconv.ParseInt(resp.Items[0].Statistics.SubscriberCount, 10, 64)
	return ChannelStats{ChannelID: channelID, SubscriberCount: subs}, nil
}

// Comments fetches up to maxComments top-level comments in relevance order.
// Videos with disabled comments surface as ErrNotFound.
func (c *Client) Comments(ctx context.Context, videoID string, maxComments int) ([]Comment, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(maxComments))
	params.Set("order", "relevance")

	var resp commentThreadsResp
	if err := c.get(ctx, "commentThreads", params, &resp); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
			return nil, fmt.Errorf("comments disabled for %s: %w", videoID, ErrNotFound)
		}
		return nil, fmt.Errorf("comment threads: %w", err)
	}

	comments := make([]Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		s := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, Comment{
			Text:        s.TextDisplay,
			Author:      s.AuthorDisplayName,
			Likes:       s.LikeCount,
			PublishedAt: s.PublishedAt,
			VideoID:     videoID,
		})
	}
	return comments, nil
}
