// Package transcript fetches Korean caption text for a video by scraping the
// watch page: the ytInitialPlayerResponse blob lists caption tracks, and the
// chosen track's timedtext XML carries the lines.
package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"creator-scout-go/internal/retry"
)

// ErrUnavailable means the video has no usable captions. That outcome is
// final for the video; callers should skip it rather than retry.
var ErrUnavailable = errors.New("transcript: unavailable")

const (
	watchBaseURL   = "https://www.youtube.com/watch?v="
	playerRespMark = "ytInitialPlayerResponse = "
	maxWatchPage   = 6 * 1024 * 1024
	maxTimedText   = 512 * 1024

	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Fetcher retrieves caption text for videos.
type Fetcher struct {
	HTTPClient *http.Client
	Policy     retry.Policy
	// WatchURL overrides the watch page endpoint in tests.
	WatchURL string
	// Languages in preference order; manual tracks beat auto-generated.
	Languages []string
}

// NewFetcher builds a fetcher preferring Korean captions.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		Policy:     retry.Default,
		WatchURL:   watchBaseURL,
		Languages:  []string{"ko", "en"},
	}
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// GetBody returns the full caption text of the video as one space-joined
// string. Missing captions are ErrUnavailable; network failures are retried
// under the fetcher's policy before surfacing.
func (f *Fetcher) GetBody(ctx context.Context, videoID string) (string, error) {
	page, err := retry.Do(f.Policy, func() ([]byte, error) {
		return f.fetchWatchPage(ctx, videoID)
	})
	if err != nil {
		return "", fmt.Errorf("watch page %s: %w", videoID, err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", videoID, err)
	}

	track := pickTrack(tracks, f.Languages)
	body, err := retry.Do(f.Policy, func() (string, error) {
		return f.fetchTimedText(ctx, track.BaseURL)
	})
	if err != nil {
		return "", fmt.Errorf("timedtext %s: %w", videoID, err)
	}
	if body == "" {
		return "", fmt.Errorf("video %s: empty caption track: %w", videoID, ErrUnavailable)
	}
	return body, nil
}

func (f *Fetcher) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.WatchURL+videoID, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.5")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("watch page status %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, retry.Permanent(err)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxWatchPage))
}

// parseCaptionTracks pulls the caption track list out of the watch page HTML.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	idx := strings.Index(string(page), playerRespMark)
	if idx < 0 {
		return nil, fmt.Errorf("player response missing: %w", ErrUnavailable)
	}
	blob := extractJSON(page[idx+len(playerRespMark):])
	if blob == nil {
		return nil, fmt.Errorf("player response unparseable: %w", ErrUnavailable)
	}

	var pr playerResp
	if err := json.Unmarshal(blob, &pr); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	if pr.Captions == nil || len(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("no caption tracks: %w", ErrUnavailable)
	}
	return pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, nil
}

// extractJSON returns the balanced {...} object at the start of data,
// respecting string literals and escapes.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, b := range data {
		if escaped {
			escaped = false
			continue
		}
		switch b {
		case '\\':
			if inStr {
				escaped = true
			}
		case '"':
			inStr = !inStr
		case '{':
			if !inStr {
				depth++
			}
		case '}':
			if !inStr {
				depth--
				if depth == 0 {
					return data[:i+1]
				}
			}
		}
	}
	return nil
}

// pickTrack prefers a manual track in the first matching language, then an
// auto-generated one, then whatever is first.
func pickTrack(tracks []captionTrack, langs []string) captionTrack {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t
			}
		}
	}
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	return tracks[0]
}

var tagRE = regexp.MustCompile(`<[^>]+>`)

func (f *Fetcher) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return "", retry.Permanent(err)
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("timedtext status %d", resp.StatusCode)
		if resp.StatusCode >= 500 {
			return "", err
		}
		return "", retry.Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedText))
	if err != nil {
		return "", err
	}

	var tt struct {
		Lines []struct {
			Text string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", retry.Permanent(fmt.Errorf("parse timedtext: %w", err))
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(tagRE.ReplaceAllString(line.Text, "")))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
