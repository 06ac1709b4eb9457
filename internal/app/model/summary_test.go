package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinTopicsFor(t *testing.T) {
	tests := []struct {
		name        string
		durationSec float64
		want        int
	}{
		{name: "short clip", durationSec: 45, want: 1},
		{name: "exactly five minutes", durationSec: 300, want: 1},
		{name: "just past five minutes", durationSec: 301, want: 5},
		{name: "long talk", durationSec: 3600, want: 5},
		{name: "unknown duration", durationSec: 0, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinTopicsFor(tt.durationSec))
		})
	}
}

func TestTopicStartSeconds(t *testing.T) {
	assert.Equal(t, 483.0, Topic{Start: "08:03"}.StartSeconds())
	assert.Equal(t, 0.0, Topic{Start: "bogus"}.StartSeconds())
}
