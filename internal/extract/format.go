package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Format serializes the records at or above the threshold back into the entry
// grammar, one block per record. Re-parsing the output yields the same
// (id, score) pairs.
func Format(recs []Recommendation) string {
	surfaced := AboveThreshold(recs)
	if len(surfaced) == 0 {
		return "5.0점 이상의 추천 영상이 없습니다."
	}

	var sb strings.Builder
	for _, rec := range surfaced {
		sb.WriteString(FormatEntry(rec))
	}
	return sb.String()
}

// FormatEntry serializes one record as a full entry block.
func FormatEntry(rec Recommendation) string {
	keywords := rec.Keywords
	if keywords == "" {
		keywords = "정보 없음"
	}
	deficiency := rec.DeficiencyTypes
	if deficiency == "" {
		deficiency = "정보 없음"
	}
	insight := rec.Insight
	if insight == "" {
		insight = "추가 분석 정보 없음"
	}

	return fmt.Sprintf(`
[%s] - %s - 종합 점수: %s/10
* 링크: %s
* 채널: %s
* 콘텐츠 유형: %s
* 주요 키워드: %s
* 교육 콘텐츠 점수: %s/10 | 교육자/경험 전달자 점수: %s/10
* 키워드 매칭: %s/10 | 발화 유사성: %d%% | 결핍-솔루션: %s/10
* 주요 결핍 유형: %s

<인사이트>
%s

`,
		rec.ID, rec.Title, fnum(rec.Score),
		rec.URL,
		rec.Channel,
		rec.ContentType,
		keywords,
		fnum(rec.EducationalScore), fnum(rec.TeacherScore),
		fnum(rec.KeywordScore), rec.SimilarityPct, fnum(rec.DeficiencyScore),
		deficiency,
		insight,
	)
}

func fnum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
