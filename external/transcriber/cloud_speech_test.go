package transcriber

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/foxseedlab/kikitorin/internal/asr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeSender struct {
	requests  []*speechpb.StreamingRecognizeRequest
	closed    bool
	sendErr   error
	failAfter int
}

func (f *fakeSender) Send(req *speechpb.StreamingRecognizeRequest) error {
	if f.sendErr != nil && len(f.requests) >= f.failAfter {
		return f.sendErr
	}
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeSender) CloseSend() error {
	f.closed = true
	return nil
}

type fakeReceiver struct {
	responses []*speechpb.StreamingRecognizeResponse
	err       error
}

func (f *fakeReceiver) Recv() (*speechpb.StreamingRecognizeResponse, error) {
	if len(f.responses) == 0 {
		if f.err != nil {
			return nil, f.err
		}
		return nil, io.EOF
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func testSpeechConfig() asr.SpeechConfig {
	return asr.SpeechConfig{
		Language:             "en-US",
		AlternativeLanguages: []string{"es-ES"},
		Model:                "latest_short",
		PhraseBoost:          20,
	}
}

func framesChannel(frames ...[]byte) <-chan []byte {
	ch := make(chan []byte, len(frames))
	for _, f := range frames {
		ch <- f
	}
	close(ch)
	return ch
}

func TestSendRequests_ConfigThenFramesInOrder(t *testing.T) {
	sender := &fakeSender{}
	frames := [][]byte{{0x01}, {0x02}, {0x03}}

	err := sendRequests(context.Background(), sender, testSpeechConfig(), framesChannel(frames...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sender.closed {
		t.Fatal("expected CloseSend after last frame")
	}
	if len(sender.requests) != len(frames)+1 {
		t.Fatalf("expected %d messages, got %d", len(frames)+1, len(sender.requests))
	}
	if sender.requests[0].GetStreamingConfig() == nil {
		t.Fatal("first message must carry the streaming config")
	}
	for i, frame := range frames {
		got := sender.requests[i+1].GetAudioContent()
		if string(got) != string(frame) {
			t.Fatalf("audio message %d out of order: %v", i, got)
		}
	}
}

func TestSendRequests_ContextCancelAborts(t *testing.T) {
	sender := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Channel left open: only cancellation can end the loop.
	ch := make(chan []byte)

	err := sendRequests(ctx, sender, testSpeechConfig(), ch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sender.closed {
		t.Fatal("cancelled send must not half-close the stream")
	}
}

func TestSendRequests_EOFMeansServerEndedExchange(t *testing.T) {
	sender := &fakeSender{sendErr: io.EOF, failAfter: 1}

	err := sendRequests(context.Background(), sender, testSpeechConfig(), framesChannel([]byte{0x01}))
	if err != nil {
		t.Fatalf("expected nil error for io.EOF from Send, got %v", err)
	}
}

func TestBuildStreamingConfig_Fields(t *testing.T) {
	cfg := testSpeechConfig()
	sc := buildStreamingConfig(cfg)

	if !sc.GetSingleUtterance() || sc.GetInterimResults() {
		t.Fatalf("unexpected streaming flags: %+v", sc)
	}
	rc := sc.GetConfig()
	if rc.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Fatalf("unexpected encoding: %v", rc.GetEncoding())
	}
	if rc.GetSampleRateHertz() != 16000 {
		t.Fatalf("unexpected sample rate: %d", rc.GetSampleRateHertz())
	}
	if rc.GetLanguageCode() != "en-US" || rc.GetModel() != "latest_short" {
		t.Fatalf("unexpected language/model: %s / %s", rc.GetLanguageCode(), rc.GetModel())
	}
	if got := rc.GetAlternativeLanguageCodes(); len(got) != 1 || got[0] != "es-ES" {
		t.Fatalf("unexpected alternative languages: %v", got)
	}
	if len(rc.GetSpeechContexts()) != 0 {
		t.Fatal("empty phrase list must not attach a speech context")
	}
}

func TestBuildStreamingConfig_AttachesPhraseBoost(t *testing.T) {
	cfg := testSpeechConfig()
	cfg.Phrases = []string{"turn on the light", "thermostat"}
	sc := buildStreamingConfig(cfg)

	contexts := sc.GetConfig().GetSpeechContexts()
	if len(contexts) != 1 {
		t.Fatalf("expected one speech context, got %d", len(contexts))
	}
	if len(contexts[0].GetPhrases()) != 2 || contexts[0].GetBoost() != 20 {
		t.Fatalf("unexpected speech context: %+v", contexts[0])
	}
}

func finalResult(text string) *speechpb.StreamingRecognitionResult {
	return &speechpb.StreamingRecognitionResult{
		IsFinal:      true,
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text}},
	}
}

func TestCollectTranscript_JoinsFinalResults(t *testing.T) {
	receiver := &fakeReceiver{
		responses: []*speechpb.StreamingRecognizeResponse{
			{Results: []*speechpb.StreamingRecognitionResult{finalResult("turn on")}},
			{Results: []*speechpb.StreamingRecognitionResult{
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "interim noise"}}},
				finalResult("the light"),
			}},
		},
	}

	text, err := collectTranscript(receiver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "turn on the light" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestCollectTranscript_NoFinalResultsIsEmptyNotError(t *testing.T) {
	receiver := &fakeReceiver{
		responses: []*speechpb.StreamingRecognizeResponse{
			{Results: []*speechpb.StreamingRecognitionResult{
				{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "interim"}}},
			}},
		},
	}

	text, err := collectTranscript(receiver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty transcript, got %q", text)
	}
}

func TestCollectTranscript_ResponseErrorPropagates(t *testing.T) {
	receiver := &fakeReceiver{
		responses: []*speechpb.StreamingRecognizeResponse{
			{Error: status.New(codes.InvalidArgument, "bad audio").Proto()},
		},
	}

	if _, err := collectTranscript(receiver); err == nil {
		t.Fatal("expected error from response error status")
	}
}

func TestClassifyStreamError(t *testing.T) {
	if got := classifyStreamError(context.Canceled); !errors.Is(got, context.Canceled) {
		t.Fatalf("expected cancellation passthrough, got %v", got)
	}
	if got := classifyStreamError(status.Error(codes.Canceled, "context canceled")); !errors.Is(got, context.Canceled) {
		t.Fatalf("expected grpc cancel to map to context.Canceled, got %v", got)
	}
	if got := classifyStreamError(status.Error(codes.Internal, "backend blew up")); got == nil || !strings.Contains(got.Error(), "speech service error") {
		t.Fatalf("expected remote error classification, got %v", got)
	}
	if got := classifyStreamError(errors.New("connection reset")); got == nil || !strings.Contains(got.Error(), "streaming recognize") {
		t.Fatalf("expected local error classification, got %v", got)
	}
}
