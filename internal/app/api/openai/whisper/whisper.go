package whisper

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"clipnotes/internal/app/api"
	"clipnotes/internal/app/audio"
	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
)

// transcriptionClient is the slice of the OpenAI client the backend uses,
// extracted so tests can substitute a fake.
type transcriptionClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// RemoteTranscriber implements remote transcription against the OpenAI
// Whisper API. The audio track is extracted with ffmpeg, split into chunks,
// and transcribed one chunk per request so long videos report per-chunk
// progress and can be cancelled between chunks.
type RemoteTranscriber struct {
	client   transcriptionClient
	model    string
	chunkSec int
	prompt   string
	logger   *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. prompt is
// an optional context hint forwarded to the API for better accuracy.
func NewRemoteTranscriber(client *openai.Client, modelID string, chunkSec int, prompt string, logger *zap.Logger) *RemoteTranscriber {
	if chunkSec <= 0 {
		chunkSec = 600
	}
	return &RemoteTranscriber{
		client:   client,
		model:    modelID,
		chunkSec: chunkSec,
		prompt:   prompt,
		logger:   logger,
	}
}

func (rt *RemoteTranscriber) ID() string    { return "openai" }
func (rt *RemoteTranscriber) Model() string { return rt.model }

// Transcribe extracts the audio, uploads chunk by chunk and stitches the
// timestamped segments back onto the video timeline.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, req api.TranscriptionRequest) (*model.Transcript, error) {
	workDir, err := os.MkdirTemp("", "clipnotes-audio-")
	if err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := audio.ExtractWav16k(ctx, req.InputFilePath, wavPath); err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}

	chunks, err := audio.SplitWav(ctx, wavPath, rt.chunkSec)
	if err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}

	rt.logger.Info("starting remote transcription",
		zap.String("file", req.InputFilePath),
		zap.Int("chunks", len(chunks)))

	transcript, err := rt.transcribeChunks(ctx, req, chunks)
	if err != nil {
		return nil, err
	}

	rt.logger.Info("remote transcription complete",
		zap.Int("segments", len(transcript.Segments)))
	return transcript, nil
}

// transcribeChunks uploads the chunks in order, offsetting each chunk's
// local segment times by its start on the video timeline.
func (rt *RemoteTranscriber) transcribeChunks(ctx context.Context, req api.TranscriptionRequest, chunks []audio.Chunk) (*model.Transcript, error) {
	transcript := &model.Transcript{}
	for i, chunk := range chunks {
		// Cancellation checkpoint between chunks.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := rt.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    rt.model,
			FilePath: chunk.Path,
			Format:   openai.AudioResponseFormatVerboseJSON,
			Language: req.Language,
			Prompt:   rt.prompt,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, classifyAPIError(err)
		}

		if transcript.Language == "" {
			transcript.Language = resp.Language
		}
		for _, seg := range resp.Segments {
			transcript.Segments = append(transcript.Segments, model.Segment{
				Start: seg.Start + chunk.StartSec,
				End:   seg.End + chunk.StartSec,
				Text:  seg.Text,
			})
		}

		if req.Progress != nil {
			req.Progress(i+1, len(chunks))
		}
	}
	return transcript, nil
}

// classifyAPIError maps OpenAI API failures onto the transcription cause
// taxonomy.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if apperrors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseAuth, err)
		case 429:
			return apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseQuota, err)
		case 400, 413, 415:
			return apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
		}
	}
	return apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseNetwork, err)
}
