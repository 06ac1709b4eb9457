package whisper_cpp

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"clipnotes/internal/app/api"
	"clipnotes/internal/app/audio"
	apperrors "clipnotes/internal/app/errors"
	"clipnotes/internal/app/model"
)

// segmentLine matches whisper.cpp's default stdout format:
// [00:00:00.000 --> 00:00:07.440]   text
var segmentLine = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2}\.\d{3}) --> (\d{2}:\d{2}:\d{2}\.\d{3})\]\s*(.*)$`)

// LocalTranscriber implements local transcription with a whisper.cpp
// binary. The model file is verified once per process; every run after the
// first skips the load check.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	language   string
	logger     *zap.Logger

	loadOnce sync.Once
	loadErr  error
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(binaryPath, modelPath, language string, logger *zap.Logger) *LocalTranscriber {
	return &LocalTranscriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		language:   language,
		logger:     logger,
	}
}

func (lt *LocalTranscriber) ID() string { return "whisper_cpp" }

// Model returns the model file name, which identifies the local model for
// fingerprinting.
func (lt *LocalTranscriber) Model() string {
	parts := strings.Split(lt.modelPath, "/")
	return parts[len(parts)-1]
}

// ensureModel lazily verifies binary and model exist. Memoized: only the
// first call in the process pays the check.
func (lt *LocalTranscriber) ensureModel() error {
	lt.loadOnce.Do(func() {
		if _, err := os.Stat(lt.binaryPath); err != nil {
			lt.loadErr = apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseModelLoad,
				apperrors.Newf("whisper.cpp binary not found at %s", lt.binaryPath))
			return
		}
		if _, err := os.Stat(lt.modelPath); err != nil {
			lt.loadErr = apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseModelLoad,
				apperrors.Newf("whisper.cpp model not found at %s", lt.modelPath))
			return
		}
		lt.logger.Info("whisper.cpp model ready",
			zap.String("binary", lt.binaryPath),
			zap.String("model", lt.modelPath))
	})
	return lt.loadErr
}

// Transcribe extracts the audio to 16 kHz WAV and runs whisper.cpp over it,
// parsing timestamped segments from stdout as they are printed. Progress is
// reported per parsed segment relative to the audio duration; cancellation
// kills the process at the next scheduler checkpoint.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, req api.TranscriptionRequest) (*model.Transcript, error) {
	if err := lt.ensureModel(); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "clipnotes-audio-")
	if err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}
	defer os.RemoveAll(workDir)

	wavPath := workDir + "/audio.wav"
	if err := audio.ExtractWav16k(ctx, req.InputFilePath, wavPath); err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}

	durationSec, err := audio.Duration(ctx, wavPath)
	if err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseMedia, err)
	}

	language := req.Language
	if language == "" {
		language = lt.language
	}

	args := []string{
		"-m", lt.modelPath,
		"-f", wavPath,
	}
	if language != "" {
		args = append(args, "-l", language)
	}

	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr
	stdout, err := command.StdoutPipe()
	if err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseModelLoad, err)
	}

	lt.logger.Info("running whisper.cpp",
		zap.String("command", lt.binaryPath+" "+strings.Join(args, " ")))

	if err := command.Start(); err != nil {
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseModelLoad, err)
	}

	transcript := &model.Transcript{Language: language}
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		seg, ok := ParseSegmentLine(scanner.Text())
		if !ok {
			continue
		}
		transcript.Segments = append(transcript.Segments, seg)

		if req.Progress != nil && durationSec > 0 {
			done := int(seg.End)
			total := int(durationSec)
			if done > total {
				done = total
			}
			req.Progress(done, total)
		}
	}

	if err := command.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.WithCategory(apperrors.ErrTranscription, apperrors.CauseModelLoad,
			apperrors.Wrapf(err, "whisper.cpp failed: %s", stderr.String()))
	}

	return transcript, nil
}

// ParseSegmentLine parses one whisper.cpp output line into a segment.
func ParseSegmentLine(line string) (model.Segment, bool) {
	m := segmentLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return model.Segment{}, false
	}
	text := strings.TrimSpace(m[3])
	if text == "" {
		return model.Segment{}, false
	}
	return model.Segment{
		Start: parseClock(m[1]),
		End:   parseClock(m[2]),
		Text:  text,
	}, true
}

// parseClock converts "HH:MM:SS.mmm" to seconds.
func parseClock(ts string) float64 {
	parts := strings.Split(ts, ":")
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.ParseFloat(parts[2], 64)
	return float64(h*3600+m*60) + s
}
