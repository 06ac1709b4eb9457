package files

import (
	"os"
	"path/filepath"
	"strings"

	"clipnotes/internal/app/errors"
)

// Container formats the player accepts.
var supportedExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".mkv": true,
	".m4v": true,
	".webm": true,
}

// IsSupportedVideo reports whether the extension is one of the accepted
// containers.
func IsSupportedVideo(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateVideo checks the input file can feed the pipeline: it must exist,
// be a regular file, be non-empty and carry a supported extension. Any
// violation maps to ErrUnreadableInput.
func ValidateVideo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(errors.ErrUnreadableInput, "cannot stat %s", path)
	}
	if info.IsDir() {
		return errors.Wrapf(errors.ErrUnreadableInput, "%s is a directory", path)
	}
	if info.Size() == 0 {
		return errors.Wrapf(errors.ErrUnreadableInput, "%s is empty", path)
	}
	if !IsSupportedVideo(path) {
		return errors.Wrapf(errors.ErrUnreadableInput, "unsupported container %s", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrUnreadableInput, "cannot open %s", path)
	}
	return f.Close()
}

// EnsureDir creates dir and parents if missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
