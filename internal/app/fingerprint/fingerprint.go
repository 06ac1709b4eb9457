package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"clipnotes/internal/app/errors"
)

// BackendConfig identifies the backend configuration that participates in
// the fingerprint. Changing any field invalidates cache reuse for every
// video, which is exactly the point: a summary produced by a different model
// is a different artifact.
type BackendConfig struct {
	TranscriberID      string
	TranscriptionModel string
	SummarizerID       string
	SummaryModel       string
}

// Compute derives the cache key for (video content, backend configuration).
// The file bytes are streamed through SHA-256, then the backend identifiers
// are folded in, so the result is stable across restarts and independent of
// the file's path or name. Empty or unopenable files fail with
// ErrUnreadableInput.
func Compute(videoPath string, cfg BackendConfig) (string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return "", errors.Wrapf(errors.ErrUnreadableInput, "cannot open %s", videoPath)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", errors.Wrapf(errors.ErrUnreadableInput, "cannot read %s", videoPath)
	}
	if n == 0 {
		return "", errors.Wrapf(errors.ErrUnreadableInput, "%s is empty", videoPath)
	}

	fmt.Fprintf(h, "|transcriber=%s|tmodel=%s|summarizer=%s|smodel=%s",
		cfg.TranscriberID, cfg.TranscriptionModel, cfg.SummarizerID, cfg.SummaryModel)

	return hex.EncodeToString(h.Sum(nil)), nil
}
