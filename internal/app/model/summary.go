package model

import "time"

// Highlight is a short timestamped note attached to a Topic. Timestamps use
// the MM:SS form the player seeks with.
type Highlight struct {
	Timestamp string `json:"timestamp" validate:"required,timestamp"`
	Text      string `json:"text" validate:"required,max=500"`
	Category  string `json:"category,omitempty" validate:"max=50"`
}

// Topic is a summarized span of the video. End may be empty when the model
// only reports where a topic begins.
type Topic struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Start       string      `json:"start" validate:"required,timestamp"`
	End         string      `json:"end,omitempty" validate:"omitempty,timestamp"`
	Description string      `json:"description" validate:"required,max=800"`
	Highlights  []Highlight `json:"highlights" validate:"dive"`
}

// StartSeconds returns the topic start as seconds, 0 if unparseable.
func (t Topic) StartSeconds() float64 {
	sec, err := ParseTimestamp(t.Start)
	if err != nil {
		return 0
	}
	return sec
}

// Summary is the ordered topic breakdown of one video plus generation
// metadata. Topics are ordered by ascending start timestamp; overlapping
// topics are tolerated.
type Summary struct {
	Topics []Topic `json:"topics" validate:"required,min=1,dive"`

	Model         string    `json:"model,omitempty"`
	PromptVersion string    `json:"prompt_version,omitempty"`
	GeneratedAt   time.Time `json:"generated_at,omitempty"`
	TokensUsed    int       `json:"tokens_used,omitempty"`
	WordCount     int       `json:"word_count,omitempty"`
}

// MinTopicsFor is the quality target for topic counts: videos longer than
// five minutes should yield at least five topics. Under-count is a warning,
// never an error.
func MinTopicsFor(videoDurationSec float64) int {
	if videoDurationSec > 5*60 {
		return 5
	}
	return 1
}
