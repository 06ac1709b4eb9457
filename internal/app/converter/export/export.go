package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
	"clipnotes/internal/app/util/files"
)

// TranscriptToText writes the timestamped transcript of one cache entry as
// a plain text file.
func TranscriptToText(entry *model.CacheEntry, outputFilePath string) error {
	if entry == nil || entry.Transcript == nil {
		return apperrors.New("no transcript to export")
	}
	if err := files.EnsureDir(filepath.Dir(outputFilePath)); err != nil {
		return err
	}
	if err := os.WriteFile(outputFilePath, []byte(entry.Transcript.TimestampedText()), 0o644); err != nil {
		return apperrors.Wrapf(err, "write transcript to %s", outputFilePath)
	}
	return nil
}

// SummaryToText renders the topic summary of one cache entry as readable
// text, one topic block per section.
func SummaryToText(entry *model.CacheEntry, outputFilePath string) error {
	if entry == nil || entry.Summary == nil {
		return apperrors.New("no summary to export")
	}
	if err := files.EnsureDir(filepath.Dir(outputFilePath)); err != nil {
		return err
	}

	var b strings.Builder
	for _, topic := range entry.Summary.Topics {
		fmt.Fprintf(&b, "[%s - %s] %s\n", topic.Start, topic.End, topic.Title)
		if topic.Description != "" {
			fmt.Fprintf(&b, "%s\n", topic.Description)
		}
		for _, h := range topic.Highlights {
			fmt.Fprintf(&b, "  %s (%s) %s\n", h.Timestamp, h.Category, h.Text)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(outputFilePath, []byte(b.String()), 0o644); err != nil {
		return apperrors.Wrapf(err, "write summary to %s", outputFilePath)
	}
	return nil
}

// ToExcel writes cached runs as a workbook, one row per entry with flattened
// topic titles for scanning.
func ToExcel(entries []*model.CacheEntry, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Runs")
	if err != nil {
		return apperrors.Wrap(err, "create worksheet")
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Fingerprint"
	headerRow.AddCell().Value = "Video Path"
	headerRow.AddCell().Value = "Duration"
	headerRow.AddCell().Value = "Processed At"
	headerRow.AddCell().Value = "Summary Model"
	headerRow.AddCell().Value = "Topics"
	headerRow.AddCell().Value = "Word Count"

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = e.Fingerprint
		row.AddCell().Value = e.VideoPath
		row.AddCell().Value = fmt.Sprintf("%.2f", e.DurationSec)
		row.AddCell().Value = e.CreatedAt.Format(time.RFC3339)
		if e.Summary != nil {
			row.AddCell().Value = e.Summary.Model
			row.AddCell().Value = topicTitles(e.Summary)
			row.AddCell().Value = fmt.Sprint(e.Summary.WordCount)
		} else {
			row.AddCell().Value = ""
			row.AddCell().Value = ""
			row.AddCell().Value = ""
		}
	}

	if err := files.EnsureDir(filepath.Dir(outputFilePath)); err != nil {
		return err
	}
	if err := file.Save(outputFilePath); err != nil {
		return apperrors.Wrapf(err, "save workbook to %s", outputFilePath)
	}
	return nil
}

func topicTitles(s *model.Summary) string {
	titles := make([]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		titles = append(titles, fmt.Sprintf("[%s] %s", t.Start, t.Title))
	}
	return strings.Join(titles, "; ")
}
