package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlock = `분석을 완료했습니다.

최종 추천 영상

[abc123] - Sample Title - 종합 점수: 7.5/10
* 링크: https://www.youtube.com/watch?v=abc123
* 채널: 수학채널
* 콘텐츠 유형: 강의
* 주요 키워드: 미적분, 수능
* 교육 콘텐츠 점수: 8/10 | 교육자/경험 전달자 점수: 7/10
* 키워드 매칭: 8.5/10 | 발화 유사성: 72% | 결핍-솔루션: 6.5/10
* 주요 결핍 유형: 개념 이해 부족

<인사이트>
개념을 단계적으로 설명하여 기초 결핍을 직접 해소한다.

[xyz789] - Other Title - 종합 점수: 3.0/10
* 링크: https://www.youtube.com/watch?v=xyz789
* 채널: 기타채널
`

func TestExtractParsesFullEntry(t *testing.T) {
	recs := Extract([]string{sampleBlock})
	require.Len(t, recs, 2)

	top := recs[0]
	assert.Equal(t, "abc123", top.ID)
	assert.Equal(t, "Sample Title", top.Title)
	assert.Equal(t, 7.5, top.Score)
	assert.Equal(t, "수학채널", top.Channel)
	assert.Equal(t, "강의", top.ContentType)
	assert.Equal(t, "미적분, 수능", top.Keywords)
	assert.Equal(t, 8.0, top.EducationalScore)
	assert.Equal(t, 7.0, top.TeacherScore)
	assert.Equal(t, 8.5, top.KeywordScore)
	assert.Equal(t, 72, top.SimilarityPct)
	assert.Equal(t, 6.5, top.DeficiencyScore)
	assert.Equal(t, "개념 이해 부족", top.DeficiencyTypes)
	assert.Equal(t, "개념을 단계적으로 설명하여 기초 결핍을 직접 해소한다.", top.Insight)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", top.URL)
}

func TestExtractThresholdScenario(t *testing.T) {
	recs := AboveThreshold(Extract([]string{sampleBlock}))
	require.Len(t, recs, 1)
	assert.Equal(t, "abc123", recs[0].ID)
	assert.Equal(t, 7.5, recs[0].Score)
}

func TestExtractMissingFieldsGetPlaceholders(t *testing.T) {
	recs := Extract([]string{"[v1] - 제목 - 종합 점수: 6.0/10\n"})
	require.Len(t, recs, 1)
	assert.Equal(t, "Unknown", recs[0].Channel)
	assert.Equal(t, "Unknown", recs[0].ContentType)
	assert.Empty(t, recs[0].Keywords)
	assert.Empty(t, recs[0].Insight)
}

func TestExtractSortsDescendingAndDedupes(t *testing.T) {
	a := "[v1] - 첫 영상 - 종합 점수: 4.0/10\n"
	b := "[v2] - 둘째 영상 - 종합 점수: 9.0/10\n[v1] - 첫 영상 - 종합 점수: 6.0/10\n"
	recs := Extract([]string{a, b})
	require.Len(t, recs, 2)
	assert.Equal(t, "v2", recs[0].ID)
	assert.Equal(t, "v1", recs[1].ID)
	assert.Equal(t, 6.0, recs[1].Score, "dedupe keeps the higher score")
}

func TestExtractSkipsOutOfRangeScore(t *testing.T) {
	recs := Extract([]string{"[v1] - 제목 - 종합 점수: 12.0/10\n"})
	assert.Empty(t, recs)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract(nil))
	assert.Empty(t, Extract([]string{""}))
	assert.Empty(t, Extract([]string{"마커가 없는 일반 텍스트"}))
}

func TestFormatRoundTripPreservesIDAndScore(t *testing.T) {
	recs := Extract([]string{sampleBlock})
	reparsed := Extract([]string{Format(recs)})

	surfaced := AboveThreshold(recs)
	require.Len(t, reparsed, len(surfaced))
	for i := range surfaced {
		assert.Equal(t, surfaced[i].ID, reparsed[i].ID)
		assert.Equal(t, surfaced[i].Score, reparsed[i].Score)
	}
}

func TestFormatEmptyList(t *testing.T) {
	assert.Equal(t, "5.0점 이상의 추천 영상이 없습니다.", Format(nil))
}
