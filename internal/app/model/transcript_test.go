package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptText(t *testing.T) {
	tr := &Transcript{Segments: []Segment{
		{Start: 0, End: 4.2, Text: "  Welcome to the session. "},
		{Start: 4.2, End: 5.0, Text: "   "},
		{Start: 5.0, End: 9.7, Text: "Today we review the new player."},
	}}

	assert.Equal(t, "Welcome to the session.\nToday we review the new player.", tr.Text())
	assert.Equal(t, 10, tr.WordCount())
	assert.False(t, tr.Empty())
}

func TestTranscriptTimestampedText(t *testing.T) {
	tr := &Transcript{Segments: []Segment{
		{Start: 0, End: 3, Text: "intro"},
		{Start: 483, End: 490, Text: "seek bar feedback"},
	}}

	assert.Equal(t, "[00:00] intro\n[08:03] seek bar feedback\n", tr.TimestampedText())
}

func TestTranscriptEmpty(t *testing.T) {
	var nilT *Transcript
	assert.True(t, nilT.Empty())
	assert.True(t, (&Transcript{}).Empty())
	assert.True(t, (&Transcript{Segments: []Segment{{Text: "  "}}}).Empty())
}

func TestSegmentDuration(t *testing.T) {
	assert.Equal(t, 2.5, Segment{Start: 1.0, End: 3.5}.Duration())
	assert.Equal(t, 0.0, Segment{Start: 3.5, End: 1.0}.Duration())
}
