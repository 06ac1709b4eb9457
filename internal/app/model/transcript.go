package model

import "strings"

// Segment is a timestamped piece of transcript. Start and End are seconds
// from the beginning of the video.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the segment length in seconds, never negative.
func (s Segment) Duration() float64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Transcript is an ordered sequence of timestamped segments. Immutable once
// produced by a backend.
type Transcript struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
}

// Text concatenates the segment texts, skipping blank segments.
func (t *Transcript) Text() string {
	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n")
}

// TimestampedText renders the transcript as "[MM:SS] text" lines, the form
// fed to the summarization prompt.
func (t *Transcript) TimestampedText() string {
	var b strings.Builder
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(FormatTimestamp(seg.Start))
		b.WriteString("] ")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// Empty reports whether the transcript carries no usable text.
func (t *Transcript) Empty() bool {
	return t == nil || t.Text() == ""
}

// WordCount counts whitespace-separated tokens across all segments.
func (t *Transcript) WordCount() int {
	return len(strings.Fields(t.Text()))
}
