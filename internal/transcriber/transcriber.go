package transcriber

import (
	"context"

	"github.com/foxseedlab/kikitorin/internal/asr"
)

// Transcriber performs one complete streaming recognition exchange for one
// utterance. The frames channel yields PCM frames in arrival order and is
// closed after the last frame; the returned text is the joined final
// results, empty when the service produced none. Cancelling ctx aborts the
// exchange and surfaces as context.Canceled, never as a recognition error.
type Transcriber interface {
	Transcribe(ctx context.Context, cfg asr.SpeechConfig, frames <-chan []byte) (string, error)
}
