package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"clipnotes/internal/app/model"
)

func sampleEntry() *model.CacheEntry {
	return &model.CacheEntry{
		Fingerprint: "abc123",
		VideoPath:   "/videos/talk.mp4",
		DurationSec: 420,
		Transcript: &model.Transcript{Segments: []model.Segment{
			{Start: 0, End: 6, Text: "welcome everyone"},
			{Start: 6, End: 14, Text: "today we cover caching"},
		}},
		Summary: &model.Summary{
			Topics: []model.Topic{{
				Title: "Introduction", Start: "00:00", End: "01:00",
				Description: "Speaker welcomes the audience.",
				Highlights: []model.Highlight{
					{Timestamp: "00:06", Text: "caching announced", Category: "insight"},
				},
			}},
			Model:     "gpt-4o-mini",
			WordCount: 6,
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestTranscriptToText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "talk.txt")
	require.NoError(t, TranscriptToText(sampleEntry(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[00:00] welcome everyone")
	assert.Contains(t, string(data), "[00:06] today we cover caching")
}

func TestTranscriptToTextRejectsMissingTranscript(t *testing.T) {
	entry := sampleEntry()
	entry.Transcript = nil
	err := TranscriptToText(entry, filepath.Join(t.TempDir(), "talk.txt"))
	assert.Error(t, err)
}

func TestSummaryToText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "talk_summary.txt")
	require.NoError(t, SummaryToText(sampleEntry(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[00:00 - 01:00] Introduction")
	assert.Contains(t, string(data), "00:06 (insight) caching announced")
}

func TestToExcel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "runs.xlsx")
	require.NoError(t, ToExcel([]*model.CacheEntry{sampleEntry()}, out))

	file, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	require.Len(t, sheet.Rows, 2)

	assert.Equal(t, "Fingerprint", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "abc123", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "/videos/talk.mp4", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "gpt-4o-mini", sheet.Rows[1].Cells[4].Value)
	assert.Contains(t, sheet.Rows[1].Cells[5].Value, "Introduction")
}

func TestToExcelWithoutSummary(t *testing.T) {
	entry := sampleEntry()
	entry.Summary = nil
	out := filepath.Join(t.TempDir(), "runs.xlsx")
	require.NoError(t, ToExcel([]*model.CacheEntry{entry}, out))

	file, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	assert.Equal(t, "", file.Sheets[0].Rows[1].Cells[4].Value)
}
