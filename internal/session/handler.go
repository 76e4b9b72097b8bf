package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxseedlab/kikitorin/internal/asr"
	"github.com/foxseedlab/kikitorin/internal/config"
	"github.com/foxseedlab/kikitorin/internal/transcriber"
	"github.com/foxseedlab/kikitorin/internal/webhook"
	"github.com/foxseedlab/kikitorin/internal/wyoming"
)

const webhookTimeout = 10 * time.Second

// Factory builds one Handler per accepted connection, sharing the
// recognizer client, the webhook sender and the precomputed capability
// descriptor across all of them.
type Factory struct {
	speechConfig asr.SpeechConfig
	infoEvent    wyoming.Event
	transcriber  transcriber.Transcriber
	webhook      webhook.Sender
}

func NewFactory(cfg *config.Config, stt transcriber.Transcriber, wh webhook.Sender) (*Factory, error) {
	infoEvent, err := wyoming.NewEvent(wyoming.TypeInfo, asr.NewInfo(cfg.Language))
	if err != nil {
		return nil, err
	}
	return &Factory{
		speechConfig: asr.SpeechConfig{
			Language:             cfg.Language,
			AlternativeLanguages: cfg.AlternativeLanguages,
			Model:                cfg.Model,
			Phrases:              cfg.BoostPhrases,
			PhraseBoost:          float32(cfg.PhraseBoost),
		},
		infoEvent:   infoEvent,
		transcriber: stt,
		webhook:     wh,
	}, nil
}

func (f *Factory) NewHandler(writer wyoming.EventWriter, connectionID string) *Handler {
	return &Handler{
		speechConfig: f.speechConfig,
		infoEvent:    f.infoEvent,
		transcriber:  f.transcriber,
		webhook:      f.webhook,
		writer:       writer,
		connectionID: connectionID,
		language:     f.speechConfig.Language,
	}
}

// Handler is the per-connection protocol state machine. It is driven from
// a single event-loop goroutine; the only concurrent actor is the
// utterance task it spawns, which owns the consumer side of the queue and
// the outbound transcript event. At most one queue and one task are live
// at any time.
type Handler struct {
	speechConfig asr.SpeechConfig
	infoEvent    wyoming.Event
	transcriber  transcriber.Transcriber
	webhook      webhook.Sender
	writer       wyoming.EventWriter
	connectionID string

	// language holds the override applied to the next utterance. An
	// override arriving mid-utterance never touches the configuration
	// already sent for the one in flight.
	language string

	queue *frameQueue
	task  *utteranceTask
}

type utteranceTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// HandleEvent processes one decoded protocol event. It returns false when
// the session is finished and the connection should be closed.
func (h *Handler) HandleEvent(ctx context.Context, ev wyoming.Event) (bool, error) {
	switch ev.Type {
	case wyoming.TypeDescribe:
		if err := h.writer.WriteEvent(h.infoEvent); err != nil {
			return false, err
		}
		slog.Debug("sent capability descriptor", "connection_id", h.connectionID)
		return true, nil

	case wyoming.TypeTranscribe:
		t, err := wyoming.ParseTranscribe(ev)
		if err != nil {
			slog.Warn("ignoring malformed transcribe event", "error", err, "connection_id", h.connectionID)
			return true, nil
		}
		if t.Language != "" {
			h.language = t.Language
			slog.Debug("language override stored for next utterance", "language", t.Language, "connection_id", h.connectionID)
		}
		return true, nil

	case wyoming.TypeAudioStart:
		h.startUtterance(ctx)
		return true, nil

	case wyoming.TypeAudioChunk:
		if h.queue == nil {
			slog.Warn("audio chunk received with no active utterance; dropping", "connection_id", h.connectionID)
			return true, nil
		}
		if err := h.queue.Put(ctx, ev.Payload); err != nil {
			if errors.Is(err, errStreamFinished) {
				slog.Warn("streaming task ended before audio-stop; dropping frame", "connection_id", h.connectionID)
				return true, nil
			}
			return false, err
		}
		return true, nil

	case wyoming.TypeAudioStop:
		h.finishUtterance()
		return false, nil

	default:
		slog.Debug("ignoring event", "type", ev.Type, "connection_id", h.connectionID)
		return true, nil
	}
}

func (h *Handler) startUtterance(ctx context.Context) {
	if h.task != nil {
		slog.Warn("utterance start while another is streaming; replacing", "connection_id", h.connectionID)
		h.abortUtterance()
	}

	cfg := h.speechConfig.WithLanguage(h.language)

	taskCtx, cancel := context.WithCancel(ctx)
	h.task = &utteranceTask{cancel: cancel, done: make(chan struct{})}
	h.queue = newFrameQueue(h.task.done)
	go h.runUtterance(taskCtx, h.task, h.queue, cfg)
	slog.Debug("utterance started", "language", cfg.Language, "connection_id", h.connectionID)
}

// finishUtterance seals the queue, waits for the streaming task to deliver
// its result, and returns the handler to the idle state. Stop while idle
// is a no-op.
func (h *Handler) finishUtterance() {
	if h.queue == nil {
		return
	}
	h.queue.CloseSend()
	<-h.task.done
	h.task.cancel()
	h.queue = nil
	h.task = nil
}

// abortUtterance cancels the in-flight task and waits for it to unwind.
// Safe to call when no utterance is active.
func (h *Handler) abortUtterance() {
	if h.task == nil {
		return
	}
	h.task.cancel()
	<-h.task.done
	h.queue = nil
	h.task = nil
}

// Close tears the handler down on disconnect or shutdown. The cancelled
// task reports no transcript and logs no error.
func (h *Handler) Close() {
	h.abortUtterance()
}

// runUtterance is the background streaming task: it drains the queue into
// the recognizer and writes the transcript event. Every failure is
// converted into an empty transcript here; nothing propagates past the
// task boundary. Cancellation suppresses the transcript entirely.
func (h *Handler) runUtterance(ctx context.Context, task *utteranceTask, queue *frameQueue, cfg asr.SpeechConfig) {
	defer close(task.done)

	started := time.Now()
	text, err := h.transcriber.Transcribe(ctx, cfg, queue.Frames())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("transcription canceled", "connection_id", h.connectionID)
			return
		}
		slog.Error("transcription failed", "error", err, "language", cfg.Language, "connection_id", h.connectionID)
		text = ""
	}

	if err := h.writer.WriteEvent(wyoming.Transcript{Text: text}.Event()); err != nil {
		slog.Error("failed to write transcript event", "error", err, "connection_id", h.connectionID)
		return
	}
	slog.Info("transcription completed", "text", text, "language", cfg.Language, "connection_id", h.connectionID)

	if text != "" {
		go h.notifyWebhook(text, cfg.Language, time.Since(started))
	}
}

func (h *Handler) notifyWebhook(text, language string, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()
	err := h.webhook.SendTranscript(ctx, webhook.TranscriptNotification{
		Text:       text,
		Language:   language,
		DurationMS: duration.Milliseconds(),
	})
	if err != nil {
		slog.Error("failed to send transcript webhook", "error", err, "connection_id", h.connectionID)
	}
}
