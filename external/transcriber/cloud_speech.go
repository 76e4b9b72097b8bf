package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/foxseedlab/kikitorin/internal/asr"
	"github.com/foxseedlab/kikitorin/internal/transcriber"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const audioSampleRateHertz = 16000

var _ transcriber.Transcriber = (*CloudSpeechTranscriber)(nil)

// CloudSpeechTranscriber streams utterances to Google Cloud Speech-to-Text
// (v1). The underlying client is stateless after construction and shared
// across sessions.
type CloudSpeechTranscriber struct {
	client *speech.Client
}

func NewCloudSpeechTranscriber(ctx context.Context, credentialsFile string) (*CloudSpeechTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &CloudSpeechTranscriber{client: client}, nil
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, cfg asr.SpeechConfig, frames <-chan []byte) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := t.client.StreamingRecognize(ctx)
	if err != nil {
		return "", fmt.Errorf("open streaming recognize: %w", err)
	}
	slog.Debug("cloud speech stream opened", "language", cfg.Language, "model", cfg.Model)

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- sendRequests(ctx, stream, cfg, frames)
	}()

	text, recvErr := collectTranscript(stream)
	if recvErr != nil {
		// Unblock the sender before collecting its error.
		cancel()
	}
	sendErr := <-sendDone

	if recvErr != nil {
		return "", classifyStreamError(recvErr)
	}
	if sendErr != nil && !errors.Is(sendErr, context.Canceled) {
		return "", classifyStreamError(sendErr)
	}
	return text, nil
}

// recognizeSender is the outbound half of a streaming recognize exchange.
type recognizeSender interface {
	Send(*speechpb.StreamingRecognizeRequest) error
	CloseSend() error
}

// recognizeReceiver is the inbound half.
type recognizeReceiver interface {
	Recv() (*speechpb.StreamingRecognizeResponse, error)
}

// sendRequests writes the configuration message followed by one message
// per audio frame, then half-closes the stream. A Send returning io.EOF
// means the server ended the exchange early; the real error surfaces on
// the receive side.
func sendRequests(ctx context.Context, stream recognizeSender, cfg asr.SpeechConfig, frames <-chan []byte) error {
	configReq := &speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: buildStreamingConfig(cfg),
		},
	}
	if err := stream.Send(configReq); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("send streaming config: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				if err := stream.CloseSend(); err != nil {
					return fmt.Errorf("close send: %w", err)
				}
				return nil
			}
			audioReq := &speechpb.StreamingRecognizeRequest{
				StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
					AudioContent: frame,
				},
			}
			if err := stream.Send(audioReq); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("send audio frame: %w", err)
			}
		}
	}
}

// collectTranscript folds the response stream into one string: the first
// alternative of every final result, joined with single spaces. No final
// results is a valid empty transcript, not an error.
func collectTranscript(stream recognizeReceiver) (string, error) {
	var parts []string
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if respErr := resp.GetError(); respErr != nil {
			return "", status.ErrorProto(respErr)
		}
		for _, result := range resp.GetResults() {
			if !result.GetIsFinal() || len(result.GetAlternatives()) == 0 {
				continue
			}
			parts = append(parts, result.GetAlternatives()[0].GetTranscript())
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func buildStreamingConfig(cfg asr.SpeechConfig) *speechpb.StreamingRecognitionConfig {
	recognition := &speechpb.RecognitionConfig{
		Encoding:                 speechpb.RecognitionConfig_LINEAR16,
		SampleRateHertz:          audioSampleRateHertz,
		LanguageCode:             cfg.Language,
		AlternativeLanguageCodes: cfg.AlternativeLanguages,
		Model:                    cfg.Model,
	}
	if len(cfg.Phrases) > 0 {
		recognition.SpeechContexts = []*speechpb.SpeechContext{
			{Phrases: cfg.Phrases, Boost: cfg.PhraseBoost},
		}
	}
	return &speechpb.StreamingRecognitionConfig{
		Config:          recognition,
		SingleUtterance: true,
		InterimResults:  false,
	}
}

// classifyStreamError separates caller cancellation from service-reported
// and local failures. Cancellation is returned untouched so callers can
// suppress it from error paths.
func classifyStreamError(err error) error {
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if st, ok := status.FromError(err); ok {
		if st.Code() == codes.Canceled {
			return context.Canceled
		}
		return fmt.Errorf("speech service error: %w", err)
	}
	return fmt.Errorf("streaming recognize: %w", err)
}
