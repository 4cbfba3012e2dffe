package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-scout-go/internal/retry"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1};var next`, `{"a":1}`},
		{`{"a":{"b":"}"}} trailing`, `{"a":{"b":"}"}}`},
		{`{"a":"escaped \" quote"}`, `{"a":"escaped \" quote"}`},
		{`not json`, ""},
		{`{"unterminated":`, ""},
	}
	for _, tc := range cases {
		got := extractJSON([]byte(tc.in))
		assert.Equal(t, tc.want, string(got), "input %q", tc.in)
	}
}

func TestPickTrackPrefersManualKorean(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "u1", LanguageCode: "en"},
		{BaseURL: "u2", LanguageCode: "ko", Kind: "asr"},
		{BaseURL: "u3", LanguageCode: "ko"},
	}
	got := pickTrack(tracks, []string{"ko", "en"})
	assert.Equal(t, "u3", got.BaseURL)
}

func TestPickTrackFallsBackToAutoGenerated(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "u1", LanguageCode: "ja"},
		{BaseURL: "u2", LanguageCode: "ko", Kind: "asr"},
	}
	got := pickTrack(tracks, []string{"ko", "en"})
	assert.Equal(t, "u2", got.BaseURL)
}

func TestGetBodyScrapesAndJoinsLines(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2">오늘은 미분을</text>
  <text start="2" dur="3">배워 보겠습니다 &amp;amp; 적분도요</text>
  <text start="5" dur="1">  </text>
</transcript>`))
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("v"))
		player := fmt.Sprintf(`{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":%q,"languageCode":"ko"}]}}}`, srv.URL+"/timedtext")
		fmt.Fprintf(w, `<html><script>var ytInitialPlayerResponse = %s;</script></html>`, player)
	})

	f := NewFetcher()
	f.HTTPClient = srv.Client()
	f.WatchURL = srv.URL + "/watch?v="
	f.Policy = retry.Policy{MaxAttempts: 1, Interval: 0}

	body, err := f.GetBody(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "오늘은 미분을 배워 보겠습니다 & 적분도요", body)
}

func TestGetBodyNoCaptionsIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><script>var ytInitialPlayerResponse = {"videoDetails":{}};</script></html>`))
	}))
	defer srv.Close()

	f := NewFetcher()
	f.HTTPClient = srv.Client()
	f.WatchURL = srv.URL + "/watch?v="
	f.Policy = retry.Policy{MaxAttempts: 1, Interval: 0}

	_, err := f.GetBody(context.Background(), "nocaps1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
