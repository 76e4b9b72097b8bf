package webhook

import "context"

// TranscriptNotification is posted once per non-empty utterance result.
type TranscriptNotification struct {
	Text       string `json:"text"`
	Language   string `json:"language"`
	DurationMS int64  `json:"duration_ms"`
}

type Sender interface {
	SendTranscript(ctx context.Context, notification TranscriptNotification) error
}
