// Package store is the spreadsheet-backed persistence layer: the
// claimed-channels tab, the keyword worklist with its status column, and the
// results tab that accepted recommendations are appended to.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Tab names mirror the operator workbook.
const (
	ChannelsSheet = "리스트업"
	KeywordsSheet = "키워드"
	ResultsSheet  = "결과"
)

// Worklist status values written to the keyword tab.
const (
	StatusProcessing = "processing"
	StatusDone       = "done"
)

// KeywordEntry is one worklist row.
type KeywordEntry struct {
	Row     int
	Keyword string
	Status  string
}

// ResultRow is one accepted recommendation appended to the results tab.
type ResultRow struct {
	Channel          string
	URL              string
	MatchingExcerpt  string
	GeneratedContent string
}

// Workbook wraps one operator spreadsheet file.
type Workbook struct {
	path string
	file *excelize.File
}

// Open loads the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ClaimedChannels reads the channel names from column B of the
// claimed-channels tab, skipping the header row. A missing tab yields an
// empty seed, not an error.
func (w *Workbook) ClaimedChannels() ([]string, error) {
	rows, err := w.file.GetRows(ChannelsSheet)
	if err != nil {
		if isMissingSheet(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", ChannelsSheet, err)
	}

	var channels []string
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			channels = append(channels, strings.TrimSpace(row[1]))
		}
	}
	return channels, nil
}

// Keywords reads the worklist: keyword in column A, status in column B. Rows
// with an empty keyword are skipped; Row is the 1-based sheet row for later
// status updates.
func (w *Workbook) Keywords() ([]KeywordEntry, error) {
	rows, err := w.file.GetRows(KeywordsSheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeywordsSheet, err)
	}

	var entries []KeywordEntry
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		keyword := strings.TrimSpace(row[0])
		if keyword == "" {
			continue
		}
		entry := KeywordEntry{Row: i + 1, Keyword: keyword}
		if len(row) > 1 {
			entry.Status = strings.TrimSpace(row[1])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UpdateKeywordStatus writes a status value into column B of the given
// worklist row and saves the workbook. Use StatusProcessing, StatusDone or
// FailureStatus(reason).
func (w *Workbook) UpdateKeywordStatus(row int, status string) error {
	cell := "B" + strconv.Itoa(row)
	if err := w.file.SetCellValue(KeywordsSheet, cell, status); err != nil {
		return fmt.Errorf("set status %s: %w", cell, err)
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// FailureStatus builds the failed status value for the worklist.
func FailureStatus(reason string) string {
	return "failed: " + reason
}

// AppendResults appends rows to the results tab, creating the tab with its
// header when absent, and saves the workbook.
func (w *Workbook) AppendResults(rows []ResultRow) error {
	if len(rows) == 0 {
		return nil
	}

	idx, err := w.file.GetSheetIndex(ResultsSheet)
	if err != nil {
		return fmt.Errorf("results sheet index: %w", err)
	}
	next := 1
	if idx < 0 {
		if _, err := w.file.NewSheet(ResultsSheet); err != nil {
			return fmt.Errorf("create %s: %w", ResultsSheet, err)
		}
		header := []interface{}{"채널", "링크", "매칭 결과", "영업 이메일"}
		if err := w.file.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		next = 2
	} else {
		existing, err := w.file.GetRows(ResultsSheet)
		if err != nil {
			return fmt.Errorf("read %s: %w", ResultsSheet, err)
		}
		next = len(existing) + 1
	}

	for _, r := range rows {
		cells := []interface{}{r.Channel, r.URL, r.MatchingExcerpt, r.GeneratedContent}
		cell := "A" + strconv.Itoa(next)
		if err := w.file.SetSheetRow(ResultsSheet, cell, &cells); err != nil {
			return fmt.Errorf("append result row %d: %w", next, err)
		}
		next++
	}
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func isMissingSheet(err error) bool {
	var notExist excelize.ErrSheetNotExist
	return errors.As(err, &notExist)
}
