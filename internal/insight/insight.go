// Package insight turns viewer comments for a seed keyword into the
// search-optimized keyword list that drives discovery. Comments from the top
// search results are analyzed by the LLM; the numbered keyword list in the
// response is extracted, with a fixed default list when it is missing.
package insight

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"creator-scout-go/internal/llm"
	"creator-scout-go/internal/retry"
	"creator-scout-go/internal/youtube"
)

const (
	defaultSeedVideos       = 5
	defaultCommentsPerVideo = 50

	analysisMaxTokens   = 8000
	analysisTemperature = 0.5

	keywordSectionMark = "유튜브 검색 최적화 키워드"
	maxSearchKeywords  = 10

	systemPrompt = "당신은 댓글 데이터를 분석하여 사용자들의 심리적 결핍과 집착 패턴을 파악하고, 이를 바탕으로 핵심 키워드를 추출하는 전문가입니다."

	promptTemplate = `최초 검색 키워드: %s

아래는 이 키워드로 검색된 유튜브 영상들의 시청자 댓글입니다. 댓글에서 드러나는
시청자들의 심리적 결핍과 집착 패턴을 분석해 주세요.

분석 결과에는 다음 섹션을 포함해 주세요:
1. 핵심 키워드와 연관 키워드
2. 결핍-솔루션 페어
3. 선생님 발화 추정 문구
4. 유튜브 검색 최적화 키워드 (최초 검색 키워드를 변형, 확장한 검색어를 번호 목록으로)
5. 검색 데이터 기반 시장성 분석

## 댓글 데이터
%s`
)

// DefaultKeywords are used when the analysis carries no usable keyword
// section.
var DefaultKeywords = []string{
	"스피치 자신감 키우는 5분 연습법",
	"논리적 스피치 두괄식 말하기 기법",
	"스피치 리듬감 3가지 비밀",
	"말더듬 극복하는 스피치 리듬 훈련",
	"청중을 사로잡는 스피치 기술",
}

// CommentSource is the slice of the video API comment collection needs.
type CommentSource interface {
	SearchPage(ctx context.Context, query, pageToken string, maxResults int) (youtube.SearchPage, error)
	Comments(ctx context.Context, videoID string, maxComments int) ([]youtube.Comment, error)
}

// Analyzer produces the keyword analysis for one seed keyword.
type Analyzer struct {
	Source           CommentSource
	LLM              llm.Completer
	Log              *logrus.Entry
	Policy           retry.Policy
	SeedVideos       int
	CommentsPerVideo int
}

// New builds an analyzer with the standard sampling sizes.
func New(source CommentSource, completer llm.Completer, log *logrus.Entry) *Analyzer {
	return &Analyzer{
		Source:           source,
		LLM:              completer,
		Log:              log.WithField("component", "insight"),
		Policy:           retry.Default,
		SeedVideos:       defaultSeedVideos,
		CommentsPerVideo: defaultCommentsPerVideo,
	}
}

// CollectComments gathers comments from the top search results for the seed
// keyword. Videos with disabled comments are skipped.
func (a *Analyzer) CollectComments(ctx context.Context, keyword string) ([]youtube.Comment, error) {
	page, err := a.Source.SearchPage(ctx, keyword, "", a.SeedVideos)
	if err != nil {
		return nil, fmt.Errorf("seed search: %w", err)
	}

	var all []youtube.Comment
	for _, id := range page.VideoIDs {
		comments, err := a.Source.Comments(ctx, id, a.CommentsPerVideo)
		if err != nil {
			a.Log.WithError(err).WithField("video_id", id).Debug("skipping video comments")
			continue
		}
		all = append(all, comments...)
	}
	a.Log.WithFields(logrus.Fields{
		"keyword":  keyword,
		"videos":   len(page.VideoIDs),
		"comments": len(all),
	}).Info("comment collection finished")
	return all, nil
}

// Analyze sends the comments to the LLM and returns the raw analysis text.
func (a *Analyzer) Analyze(ctx context.Context, keyword string, comments []youtube.Comment) (string, error) {
	texts := make([]string, 0, len(comments))
	for _, c := range comments {
		if strings.TrimSpace(c.Text) != "" {
			texts = append(texts, c.Text)
		}
	}
	prompt := fmt.Sprintf(promptTemplate, keyword, strings.Join(texts, "\n\n"))

	return retry.Do(a.Policy, func() (string, error) {
		return a.LLM.Complete(ctx, llm.Request{
			System:      systemPrompt,
			Prompt:      prompt,
			MaxTokens:   analysisMaxTokens,
			Temperature: analysisTemperature,
		})
	})
}

// Run is the full analysis path for one seed keyword: collect comments,
// analyze them, extract the search keywords.
func (a *Analyzer) Run(ctx context.Context, keyword string) (string, []string, error) {
	comments, err := a.CollectComments(ctx, keyword)
	if err != nil {
		return "", nil, fmt.Errorf("collect comments: %w", err)
	}
	analysis, err := a.Analyze(ctx, keyword, comments)
	if err != nil {
		return "", nil, fmt.Errorf("analyze comments: %w", err)
	}
	return analysis, ExtractSearchKeywords(analysis), nil
}

var numberedItemRE = regexp.MustCompile(`\d+\.\s*(.+)`)

// ExtractSearchKeywords pulls the numbered keyword list from the section
// after the keyword-section marker, capped at ten entries. When the section
// or list is missing, the default keyword list is returned.
func ExtractSearchKeywords(analysisText string) []string {
	var keywords []string
	if _, section, found := strings.Cut(analysisText, keywordSectionMark); found {
		for _, m := range numberedItemRE.FindAllStringSubmatch(section, -1) {
			k := strings.TrimSpace(m[1])
			if k != "" {
				keywords = append(keywords, k)
			}
			if len(keywords) == maxSearchKeywords {
				break
			}
		}
	}
	if len(keywords) == 0 {
		return append([]string(nil), DefaultKeywords...)
	}
	return keywords
}
