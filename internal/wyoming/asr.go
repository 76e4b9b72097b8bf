package wyoming

import (
	"encoding/json"
	"fmt"
)

// Event types used by the speech-to-text side of the protocol.
const (
	TypeDescribe   = "describe"
	TypeInfo       = "info"
	TypeTranscribe = "transcribe"
	TypeAudioStart = "audio-start"
	TypeAudioChunk = "audio-chunk"
	TypeAudioStop  = "audio-stop"
	TypeTranscript = "transcript"
)

// AudioFormat describes the PCM stream carried by audio-start and
// audio-chunk events.
type AudioFormat struct {
	Rate     int `json:"rate"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// Transcribe requests transcription, optionally overriding the language
// for the next utterance.
type Transcribe struct {
	Name     string `json:"name,omitempty"`
	Language string `json:"language,omitempty"`
}

// Transcript carries the final text for one utterance.
type Transcript struct {
	Text string `json:"text"`
}

func (t Transcript) Event() Event {
	data, _ := json.Marshal(t)
	return Event{Type: TypeTranscript, Data: data}
}

// ParseTranscribe decodes the data block of a transcribe event.
func ParseTranscribe(ev Event) (Transcribe, error) {
	var t Transcribe
	if len(ev.Data) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(ev.Data, &t); err != nil {
		return t, fmt.Errorf("decode transcribe event: %w", err)
	}
	return t, nil
}
