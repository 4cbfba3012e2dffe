package store

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", ChannelsSheet))
	channels := [][]interface{}{
		{"번호", "채널명"},
		{"1", "수학채널"},
		{"2", "과학채널"},
		{"3", ""},
	}
	for i, row := range channels {
		r := row
		require.NoError(t, f.SetSheetRow(ChannelsSheet, "A"+strconv.Itoa(i+1), &r))
	}

	_, err := f.NewSheet(KeywordsSheet)
	require.NoError(t, err)
	keywords := [][]interface{}{
		{"키워드", "상태"},
		{"수능 수학", ""},
		{"", ""},
		{"스피치 학원", "done"},
	}
	for i, row := range keywords {
		r := row
		require.NoError(t, f.SetSheetRow(KeywordsSheet, "A"+strconv.Itoa(i+1), &r))
	}

	path := filepath.Join(t.TempDir(), "scout.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestClaimedChannelsReadsColumnB(t *testing.T) {
	w, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer w.Close()

	got, err := w.ClaimedChannels()
	require.NoError(t, err)
	assert.Equal(t, []string{"수학채널", "과학채널"}, got)
}

func TestKeywordsSkipsBlanksAndKeepsRowNumbers(t *testing.T) {
	w, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer w.Close()

	got, err := w.Keywords()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, KeywordEntry{Row: 2, Keyword: "수능 수학"}, got[0])
	assert.Equal(t, KeywordEntry{Row: 4, Keyword: "스피치 학원", Status: "done"}, got[1])
}

func TestUpdateKeywordStatusPersists(t *testing.T) {
	path := writeWorkbook(t)
	w, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, w.UpdateKeywordStatus(2, StatusProcessing))
	require.NoError(t, w.UpdateKeywordStatus(2, FailureStatus("no candidates found")))
	require.NoError(t, w.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Keywords()
	require.NoError(t, err)
	assert.Equal(t, "failed: no candidates found", got[0].Status)
}

func TestAppendResultsCreatesSheetAndAppends(t *testing.T) {
	path := writeWorkbook(t)
	w, err := Open(path)
	require.NoError(t, err)

	first := []ResultRow{{Channel: "수학채널", URL: "https://www.youtube.com/watch?v=abc123", MatchingExcerpt: "발췌"}}
	require.NoError(t, w.AppendResults(first))
	second := []ResultRow{{Channel: "과학채널", URL: "https://www.youtube.com/watch?v=def456"}}
	require.NoError(t, w.AppendResults(second))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "채널", rows[0][0])
	assert.Equal(t, "수학채널", rows[1][0])
	assert.Equal(t, "발췌", rows[1][2])
	assert.Equal(t, "https://www.youtube.com/watch?v=def456", rows[2][1])
}

func TestAppendResultsEmptyIsNoop(t *testing.T) {
	w, err := Open(writeWorkbook(t))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.AppendResults(nil))
}

func TestClaimedChannelsMissingSheetYieldsEmptySeed(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet(KeywordsSheet)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bare.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	got, err := w.ClaimedChannels()
	require.NoError(t, err)
	assert.Empty(t, got)
}
