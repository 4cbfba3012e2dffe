package youtube

import "time"

// SearchPage is one page of keyword search results plus the cursor for the
// next page. An empty NextPageToken means the cursor is exhausted.
type SearchPage struct {
	VideoIDs      []string
	NextPageToken string
}

// VideoDetail is the batched detail record for one video.
type VideoDetail struct {
	ID              string
	Title           string
	Description     string
	ChannelName     string
	ChannelID       string
	CategoryID      string
	PublishedAt     time.Time
	DurationSeconds int
	ViewCount       int64
	LikeCount       int64
}

// URL returns the canonical watch link for the video.
func (v VideoDetail) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// ChannelStats carries the channel-level statistics used for filtering.
type ChannelStats struct {
	ChannelID       string
	SubscriberCount int64
}

// Comment is one top-level comment in relevance order.
type Comment struct {
	Text        string
	Author      string
	Likes       int64
	PublishedAt string
	VideoID     string
}

// --- Data API v3 wire types ---

type searchResp struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type videosResp struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			ChannelID    string `json:"channelId"`
			CategoryID   string `json:"categoryId"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type channelsResp struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type commentThreadsResp struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					AuthorDisplayName string `json:"authorDisplayName"`
					LikeCount         int64  `json:"likeCount"`
					PublishedAt       string `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}
