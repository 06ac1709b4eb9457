package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipnotes/internal/app/errors"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidateVideo(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "valid mp4",
			path: func(t *testing.T) string { return writeFile(t, "demo.mp4", []byte("ftyp")) },
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.mp4") },
			wantErr: true,
		},
		{
			name:    "zero byte file",
			path:    func(t *testing.T) string { return writeFile(t, "empty.mp4", nil) },
			wantErr: true,
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeFile(t, "notes.txt", []byte("text")) },
			wantErr: true,
		},
		{
			name:    "directory",
			path:    func(t *testing.T) string { return t.TempDir() },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVideo(tt.path(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrUnreadableInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsSupportedVideo(t *testing.T) {
	assert.True(t, IsSupportedVideo("a/b/demo.MP4"))
	assert.True(t, IsSupportedVideo("demo.mov"))
	assert.False(t, IsSupportedVideo("demo.avi"))
	assert.False(t, IsSupportedVideo("demo"))
}
