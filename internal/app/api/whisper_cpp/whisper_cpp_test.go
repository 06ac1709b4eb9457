package whisper_cpp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clipnotes/internal/app/api"
	apperrors "clipnotes/internal/app/errors"
)

func TestParseSegmentLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantStart float64
		wantEnd   float64
		wantText  string
		wantOK    bool
	}{
		{
			name:      "plain segment",
			line:      "[00:00:00.000 --> 00:00:07.440]   Welcome back to the channel.",
			wantStart: 0, wantEnd: 7.44, wantText: "Welcome back to the channel.", wantOK: true,
		},
		{
			name:      "past one hour",
			line:      "[01:02:03.500 --> 01:02:10.000] still going",
			wantStart: 3723.5, wantEnd: 3730, wantText: "still going", wantOK: true,
		},
		{name: "blank text dropped", line: "[00:00:00.000 --> 00:00:01.000]    ", wantOK: false},
		{name: "progress noise", line: "whisper_print_timings: total time = 1000 ms", wantOK: false},
		{name: "empty", line: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, ok := ParseSegmentLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantStart, seg.Start)
			assert.Equal(t, tt.wantEnd, seg.End)
			assert.Equal(t, tt.wantText, seg.Text)
		})
	}
}

func TestEnsureModelFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	lt := NewLocalTranscriber(missing, missing, "", zap.NewNop())

	_, err := lt.Transcribe(context.Background(), api.TranscriptionRequest{InputFilePath: "in.mp4"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrTranscription))
	assert.Equal(t, apperrors.CauseModelLoad, apperrors.Category(err))

	// Memoized: second call returns the same load failure without
	// re-checking.
	_, err2 := lt.Transcribe(context.Background(), api.TranscriptionRequest{InputFilePath: "in.mp4"})
	assert.Equal(t, err.Error(), err2.Error())
}

func TestModelIdentifier(t *testing.T) {
	lt := NewLocalTranscriber("/usr/local/bin/whisper", "/models/ggml-base.en.bin", "en", zap.NewNop())
	assert.Equal(t, "whisper_cpp", lt.ID())
	assert.Equal(t, "ggml-base.en.bin", lt.Model())
}
