package asr

// SpeechConfig holds the per-utterance recognition settings. A value is
// resolved once when an utterance starts and is never mutated afterwards;
// the configuration message derived from it is sent to the recognizer
// exactly once, before any audio.
type SpeechConfig struct {
	Language             string
	AlternativeLanguages []string
	Model                string
	Phrases              []string
	PhraseBoost          float32
}

// WithLanguage returns a copy with the primary language replaced.
func (c SpeechConfig) WithLanguage(language string) SpeechConfig {
	if language != "" {
		c.Language = language
	}
	return c
}
