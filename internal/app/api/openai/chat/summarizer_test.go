package chat

import (
	"context"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
)

type fakeChat struct {
	contents []string
	err      error
	calls    int
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	content := f.contents[f.calls]
	if f.calls < len(f.contents)-1 {
		f.calls++
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
		Usage: openai.Usage{TotalTokens: 321},
	}, nil
}

func newTestSummarizer(client chatClient, maxRetries int) *Summarizer {
	return &Summarizer{
		client:     client,
		model:      "gpt-4o-mini",
		maxRetries: maxRetries,
		maxTokens:  2500,
		validate:   newValidator(),
		logger:     zap.NewNop(),
	}
}

func testTranscript() *model.Transcript {
	return &model.Transcript{Segments: []model.Segment{
		{Start: 0, End: 30, Text: "intro and agenda"},
		{Start: 483, End: 520, Text: "seek bar is hard to grab"},
	}}
}

const validSummary = `{"topics":[
	{"title":"Introduction","start":"00:00","end":"00:30","description":"Sets the agenda for the session.","highlights":[{"timestamp":"00:05","text":"welcome everyone"}]},
	{"title":"Seek bar usability","start":"08:03","end":"08:40","description":"The seek bar handle is too small to grab reliably.","highlights":[{"timestamp":"08:10","text":"seek bar is hard to grab","category":"ux"}]}
]}`

func TestSummarizeSuccess(t *testing.T) {
	s := newTestSummarizer(&fakeChat{contents: []string{validSummary}}, 2)

	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)

	require.Len(t, summary.Topics, 2)
	assert.Equal(t, "Introduction", summary.Topics[0].Title)
	assert.Equal(t, 483.0, summary.Topics[1].StartSeconds())
	assert.Equal(t, "gpt-4o-mini", summary.Model)
	assert.Equal(t, PromptVersion, summary.PromptVersion)
	assert.Equal(t, 321, summary.TokensUsed)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestSummarizeSortsUnorderedTopics(t *testing.T) {
	unordered := `{"topics":[
		{"title":"Later","start":"08:03","description":"Comes second."},
		{"title":"Earlier","start":"00:10","description":"Comes first."}
	]}`
	s := newTestSummarizer(&fakeChat{contents: []string{unordered}}, 0)

	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)
	assert.Equal(t, "Earlier", summary.Topics[0].Title)
	assert.Equal(t, "Later", summary.Topics[1].Title)
}

func TestSummarizeRetriesOnSchemaFailure(t *testing.T) {
	client := &fakeChat{contents: []string{
		"not json at all",
		`{"topics":[{"title":"","start":"xx","description":""}]}`,
		validSummary,
	}}
	s := newTestSummarizer(client, 2)

	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)
	assert.Len(t, summary.Topics, 2)
	assert.Equal(t, 2, client.calls)
}

func TestSummarizeExhaustsRetries(t *testing.T) {
	client := &fakeChat{contents: []string{"still not json"}}
	s := newTestSummarizer(client, 2)

	_, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSummarization))
	assert.Equal(t, apperrors.CauseSchema, apperrors.Category(err))
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	s := newTestSummarizer(&fakeChat{contents: []string{validSummary}}, 2)

	_, err := s.Summarize(context.Background(), &model.Transcript{}, 720)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSummarization))
	assert.Equal(t, apperrors.CauseEmptyInput, apperrors.Category(err))
}

func TestSummarizeAPIErrorNotRetried(t *testing.T) {
	client := &fakeChat{err: &openai.APIError{HTTPStatusCode: 401}}
	s := newTestSummarizer(client, 2)

	_, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSummarization))
	assert.Equal(t, apperrors.CauseAuth, apperrors.Category(err))
}

// observedSummarizer routes the summarizer's log output to an in-memory
// sink so tests can assert on quality warnings.
func observedSummarizer(client chatClient) (*Summarizer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestSummarizer(client, 0)
	s.logger = zap.New(core)
	return s, logs
}

func warningsAbout(logs *observer.ObservedLogs, message string) int {
	return len(logs.FilterMessage(message).All())
}

func TestSummarizeWarnsOnLowTopicCount(t *testing.T) {
	oneTopic := `{"topics":[{"title":"Only topic","start":"00:00","end":"01:00","description":"The whole video in one topic."}]}`
	s, logs := observedSummarizer(&fakeChat{contents: []string{oneTopic}})

	// Twelve minutes of video wants at least five topics.
	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)
	assert.Len(t, summary.Topics, 1)
	assert.Equal(t, 1, warningsAbout(logs, "summary has fewer topics than the quality target"))
}

func TestSummarizeNoLowTopicWarningForShortVideo(t *testing.T) {
	oneTopic := `{"topics":[{"title":"Only topic","start":"00:00","end":"01:00","description":"Short clip, one topic is fine."}]}`
	s, logs := observedSummarizer(&fakeChat{contents: []string{oneTopic}})

	_, err := s.Summarize(context.Background(), testTranscript(), 120)
	require.NoError(t, err)
	assert.Equal(t, 0, warningsAbout(logs, "summary has fewer topics than the quality target"))
}

func TestSummarizeWarnsOnTopicPastVideoEnd(t *testing.T) {
	pastEnd := `{"topics":[
		{"title":"A","start":"00:00","end":"01:00","description":"Inside the video."},
		{"title":"B","start":"01:00","end":"02:00","description":"Inside the video."},
		{"title":"C","start":"01:30","end":"02:00","description":"Inside the video."},
		{"title":"D","start":"01:40","end":"02:00","description":"Inside the video."},
		{"title":"Ghost","start":"20:00","end":"21:00","description":"Starts after the video ends."}
	]}`
	s, logs := observedSummarizer(&fakeChat{contents: []string{pastEnd}})

	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)
	assert.Len(t, summary.Topics, 5)
	assert.Equal(t, 1, warningsAbout(logs, "topic starts past the end of the video"))
}

func TestSummarizeWarnsOnHighlightOutsideTopicSpan(t *testing.T) {
	strayHighlight := `{"topics":[{
		"title":"Only topic","start":"01:00","end":"02:00",
		"description":"One highlight sits outside the span.",
		"highlights":[
			{"timestamp":"01:30","text":"inside"},
			{"timestamp":"05:00","text":"outside"}
		]
	}]}`
	s, logs := observedSummarizer(&fakeChat{contents: []string{strayHighlight}})

	summary, err := s.Summarize(context.Background(), testTranscript(), 720)
	require.NoError(t, err)
	require.Len(t, summary.Topics, 1)
	assert.Equal(t, 1, warningsAbout(logs, "highlights fall outside their topic's span"))
}

func TestParseAndValidate(t *testing.T) {
	s := newTestSummarizer(&fakeChat{}, 0)

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: validSummary},
		{name: "empty topics", content: `{"topics":[]}`, wantErr: true},
		{name: "bad timestamp", content: `{"topics":[{"title":"t","start":"99:99","description":"d"}]}`, wantErr: true},
		{name: "missing description", content: `{"topics":[{"title":"t","start":"00:10"}]}`, wantErr: true},
		{name: "bad highlight timestamp", content: `{"topics":[{"title":"t","start":"00:10","description":"d","highlights":[{"timestamp":"later","text":"x"}]}]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.parseAndValidate(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
