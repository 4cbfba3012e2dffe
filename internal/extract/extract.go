// Package extract parses the scorer's free-text output into structured
// recommendation records. The grammar is line oriented: a marker line opens an
// entry, and the entry's span runs to the next marker. Labeled lines inside
// the span fill optional fields; a missing field gets its placeholder instead
// of aborting the entry.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Threshold is the minimum score surfaced downstream.
const Threshold = 5.0

// placeholder for labeled fields that never appeared in the entry span.
const placeholder = "Unknown"

// Recommendation is one structured, scored entry.
type Recommendation struct {
	ID               string
	Title            string
	Channel          string
	Score            float64
	URL              string
	ContentType      string
	Keywords         string
	EducationalScore float64
	TeacherScore     float64
	KeywordScore     float64
	SimilarityPct    int
	DeficiencyScore  float64
	DeficiencyTypes  string
	Insight          string
}

var (
	markerRE      = regexp.MustCompile(`\[([^\]]+)\]\s*-\s*([^-]+)-\s*종합\s*점수:\s*(\d+\.?\d*)/10`)
	channelRE     = regexp.MustCompile(`채널:\s*(.+)`)
	contentTypeRE = regexp.MustCompile(`콘텐츠 유형:\s*(.+)`)
	keywordsRE    = regexp.MustCompile(`주요 키워드:\s*(.+)`)
	pairedRE      = regexp.MustCompile(`교육 콘텐츠 점수:\s*(\d+\.?\d*)/10\s*\|\s*[^:|]*점수:\s*(\d+\.?\d*)/10`)
	detailRE      = regexp.MustCompile(`키워드 매칭:\s*(\d+\.?\d*)/10\s*\|\s*발화 유사성:\s*(\d+)%\s*\|\s*결핍-솔루션:\s*(\d+\.?\d*)/10`)
	deficiencyRE  = regexp.MustCompile(`주요 결핍 유형:\s*(.+)`)
	insightMark   = "<인사이트>"
)

// Extract parses every raw text block, deduplicates by id keeping the higher
// score, and returns the records sorted descending by score. Empty or
// marker-free input yields an empty list, never an error. Threshold filtering
// is the caller's job.
func Extract(rawTexts []string) []Recommendation {
	byID := make(map[string]Recommendation)
	var order []string
	for _, text := range rawTexts {
		for _, rec := range parseBlock(text) {
			prev, seen := byID[rec.ID]
			if !seen {
				order = append(order, rec.ID)
			}
			if !seen || rec.Score > prev.Score {
				byID[rec.ID] = rec
			}
		}
	}

	out := make([]Recommendation, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// AboveThreshold returns the records with score at or above the fixed
// threshold. Pure; the input order is preserved.
func AboveThreshold(recs []Recommendation) []Recommendation {
	var out []Recommendation
	for _, r := range recs {
		if r.Score >= Threshold {
			out = append(out, r)
		}
	}
	return out
}

func parseBlock(text string) []Recommendation {
	lines := strings.Split(text, "\n")

	// Marker line indices delimit the entry spans.
	var starts []int
	for i, line := range lines {
		if markerRE.MatchString(line) {
			starts = append(starts, i)
		}
	}

	var recs []Recommendation
	for n, start := range starts {
		end := len(lines)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		if rec, ok := parseEntry(lines[start:end]); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

func parseEntry(span []string) (Recommendation, bool) {
	m := markerRE.FindStringSubmatch(span[0])
	score, err := strconv.ParseFloat(m[3], 64)
	if err != nil || score < 0 || score > 10 {
		return Recommendation{}, false
	}

	rec := Recommendation{
		ID:          strings.TrimSpace(m[1]),
		Title:       strings.TrimSpace(m[2]),
		Score:       score,
		Channel:     placeholder,
		ContentType: placeholder,
	}
	rec.URL = "https://www.youtube.com/watch?v=" + rec.ID

	inInsight := false
	var insight []string
	for _, line := range span[1:] {
		if inInsight {
			if strings.TrimSpace(line) == "" {
				inInsight = false
				continue
			}
			insight = append(insight, line)
			continue
		}
		switch {
		case strings.Contains(line, insightMark):
			inInsight = true
		case channelRE.MatchString(line):
			rec.Channel = strings.TrimSpace(channelRE.FindStringSubmatch(line)[1])
		case contentTypeRE.MatchString(line):
			rec.ContentType = strings.TrimSpace(contentTypeRE.FindStringSubmatch(line)[1])
		case keywordsRE.MatchString(line):
			rec.Keywords = strings.TrimSpace(keywordsRE.FindStringSubmatch(line)[1])
		case pairedRE.MatchString(line):
			p := pairedRE.FindStringSubmatch(line)
			rec.EducationalScore, _ = strconv.ParseFloat(p[1], 64)
			rec.TeacherScore, _ = strconv.ParseFloat(p[2], 64)
		case detailRE.MatchString(line):
			d := detailRE.FindStringSubmatch(line)
			rec.KeywordScore, _ = strconv.ParseFloat(d[1], 64)
			rec.SimilarityPct, _ = strconv.Atoi(d[2])
			rec.DeficiencyScore, _ = strconv.ParseFloat(d[3], 64)
		case deficiencyRE.MatchString(line):
			rec.DeficiencyTypes = strings.TrimSpace(deficiencyRE.FindStringSubmatch(line)[1])
		}
	}
	rec.Insight = strings.TrimSpace(strings.Join(insight, "\n"))
	return rec, true
}
