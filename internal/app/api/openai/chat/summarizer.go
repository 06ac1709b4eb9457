package chat

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
)

// PromptVersion is recorded in summary metadata so regenerated summaries can
// be told apart from ones produced by an older prompt.
const PromptVersion = "2025-11-02"

const systemPrompt = "You return only valid JSON matching the requested schema. No prose, no markdown fences."

const summaryPrompt = `You are an expert analyst summarizing a video from its transcript.
Transform the transcript below into a JSON object with this shape:

{"topics": [{"title": "...", "start": "MM:SS", "end": "MM:SS", "description": "...", "highlights": [{"timestamp": "MM:SS", "text": "...", "category": "..."}]}]}

Guidelines:
- Cover every distinct topic the video touches; for videos longer than five minutes produce at least five topics.
- title: up to 200 characters.
- start: MM:SS of the topic's first occurrence; end: MM:SS where it concludes.
- description: a detailed explanation (up to 800 characters) of the topic, its context and any conclusions reached.
- highlights: short verbatim quotes from the transcript with their MM:SS timestamps; category is an optional one-word tag.
- Merge repeated mentions of the same topic into one entry with all relevant highlights.
- Order topics chronologically by start timestamp.
- Do not fabricate content; stay strictly within the transcript.
- Respond only with the JSON object.

Transcript:
`

// chatClient is the completion slice of the OpenAI client, extracted so
// tests can substitute a fake.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer produces a validated topic summary from a transcript via a
// schema-constrained chat completion. Schema violations are retried up to
// maxRetries times before the run fails.
type Summarizer struct {
	client      chatClient
	model       string
	maxRetries  int
	maxTokens   int
	temperature *float32
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewSummarizer creates a Summarizer backed by the OpenAI chat API.
func NewSummarizer(client *openai.Client, modelID string, maxRetries, maxTokens int, temperature *float32, logger *zap.Logger) *Summarizer {
	return &Summarizer{
		client:      client,
		model:       modelID,
		maxRetries:  maxRetries,
		maxTokens:   maxTokens,
		temperature: temperature,
		validate:    newValidator(),
		logger:      logger,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// "timestamp" accepts MM:SS and HH:MM:SS forms.
	v.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return v
}

func (s *Summarizer) ID() string    { return "openai" }
func (s *Summarizer) Model() string { return s.model }

// Summarize generates the summary. Empty transcript input is a precondition
// violation and is not attempted. Fewer topics than the quality target is a
// warning, not an error.
func (s *Summarizer) Summarize(ctx context.Context, transcript *model.Transcript, videoDurationSec float64) (*model.Summary, error) {
	if transcript.Empty() {
		return nil, apperrors.WithCategory(apperrors.ErrSummarization, apperrors.CauseEmptyInput,
			apperrors.New("transcript is empty"))
	}

	request := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summaryPrompt + transcript.TimestampedText()},
		},
		MaxTokens: s.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if s.temperature != nil {
		request.Temperature = *s.temperature
	}

	var lastErr error
	attempts := s.maxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := s.client.CreateChatCompletion(ctx, request)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transport and auth failures are not schema failures; no
			// point retrying with the same prompt.
			return nil, classifyAPIError(err)
		}
		if len(resp.Choices) == 0 {
			lastErr = apperrors.New("no choices in completion response")
			continue
		}

		summary, err := s.parseAndValidate(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = err
			s.logger.Warn("summary failed schema validation, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Error(err))
			continue
		}

		summary.Model = s.model
		summary.PromptVersion = PromptVersion
		summary.GeneratedAt = time.Now().UTC()
		summary.TokensUsed = resp.Usage.TotalTokens
		summary.WordCount = transcript.WordCount()

		s.checkQuality(summary, videoDurationSec)
		return summary, nil
	}

	return nil, apperrors.WithCategory(apperrors.ErrSummarization, apperrors.CauseSchema,
		apperrors.Wrapf(lastErr, "schema validation failed after %d attempts", attempts))
}

// parseAndValidate unmarshals the completion content and checks it against
// the fixed Topic/Highlight schema. Topic order is normalized here: an
// otherwise-valid summary with unordered topics is sorted rather than
// rejected.
func (s *Summarizer) parseAndValidate(content string) (*model.Summary, error) {
	var summary model.Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, apperrors.Wrap(err, "completion is not valid JSON")
	}

	if err := s.validate.Struct(&summary); err != nil {
		return nil, apperrors.Wrap(err, "completion violates summary schema")
	}

	sort.SliceStable(summary.Topics, func(i, j int) bool {
		return summary.Topics[i].StartSeconds() < summary.Topics[j].StartSeconds()
	})

	return &summary, nil
}

// checkQuality logs warnings for quality-target violations that do not fail
// the run: too few topics for the video length, and highlights falling
// outside their parent topic's time span.
func (s *Summarizer) checkQuality(summary *model.Summary, videoDurationSec float64) {
	if min := model.MinTopicsFor(videoDurationSec); len(summary.Topics) < min {
		s.logger.Warn("summary has fewer topics than the quality target",
			zap.Int("topics", len(summary.Topics)),
			zap.Int("expected_min", min),
			zap.Float64("video_duration_sec", videoDurationSec))
	}

	for _, topic := range summary.Topics {
		start := topic.StartSeconds()
		end := start
		if topic.End != "" {
			if sec, err := model.ParseTimestamp(topic.End); err == nil {
				end = sec
			}
		}
		if videoDurationSec > 0 && start > videoDurationSec {
			s.logger.Warn("topic starts past the end of the video",
				zap.String("topic", topic.Title),
				zap.String("start", topic.Start))
		}

		outOfRange := lo.CountBy(topic.Highlights, func(h model.Highlight) bool {
			sec, err := model.ParseTimestamp(h.Timestamp)
			if err != nil {
				return true
			}
			return sec < start || (end > start && sec > end)
		})
		if outOfRange > 0 {
			s.logger.Warn("highlights fall outside their topic's span",
				zap.String("topic", topic.Title),
				zap.Int("count", outOfRange))
		}
	}
}

// classifyAPIError maps OpenAI API failures onto the summarization cause
// taxonomy.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if apperrors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return apperrors.WithCategory(apperrors.ErrSummarization, apperrors.CauseAuth, err)
		case 429:
			return apperrors.WithCategory(apperrors.ErrSummarization, apperrors.CauseQuota, err)
		}
	}
	return apperrors.WithCategory(apperrors.ErrSummarization, apperrors.CauseNetwork, err)
}
