package generator

import (
	"strings"
	"time"
)

// Brief describes one content-generation request. It is a plain value:
// copies are independent and the compiler reads nothing else.
type Brief struct {
	Niche                   string   `json:"niche"`
	Topic                   string   `json:"topic"`
	Platform                Platform `json:"platform"`
	Tone                    Tone     `json:"tone"`
	Length                  Length   `json:"length"`
	Audience                Audience `json:"audience"`
	IncludeCTA              bool     `json:"include_cta"`
	IncludeHashtags         bool     `json:"include_hashtags"`
	IncludeImageSuggestions bool     `json:"include_image_suggestions"`
	Keywords                string   `json:"keywords"`
}

// Validate only checks that the topic is present; other fields go to the compiler verbatim.
func (b Brief) Validate() error {
	if strings.TrimSpace(b.Topic) == "" {
		return &ValidationError{Field: "topic", Message: MsgTopicRequired, Err: ErrTopicRequired}
	}
	return nil
}

// CheckOptions verifies enum membership. Inbound adapters call it before
// building a Brief from user input; the compiler itself does not.
func (b Brief) CheckOptions() error {
	switch {
	case !b.Platform.Valid():
		return invalidOption("platform", string(b.Platform))
	case !b.Tone.Valid():
		return invalidOption("tone", string(b.Tone))
	case !b.Length.Valid():
		return invalidOption("length", string(b.Length))
	case !b.Audience.Valid():
		return invalidOption("audience", string(b.Audience))
	}
	return nil
}

// Prompt is the system/user instruction pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// Params are passed through to the completion client unmodified.
type Params struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

// HistoryEntry records one successful generation. It is never mutated once appended.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Brief       Brief     `json:"brief"`
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"created_at"`
}
