package session

import (
	"context"
	"errors"
)

// queueCapacity bounds the number of buffered PCM frames per utterance.
// When the recognizer consumes slower than the client produces, Put blocks
// and backpressure propagates to the protocol loop.
const queueCapacity = 16

// errStreamFinished reports a Put after the consuming task already
// finished, e.g. when the recognizer ended the exchange before audio-stop.
var errStreamFinished = errors.New("streaming task already finished")

// frameQueue relays audio frames from the event loop to the background
// streaming task. End-of-stream is signalled by closing the channel,
// exactly once, after the last frame.
type frameQueue struct {
	ch chan []byte

	// consumerDone releases blocked producers once the consuming task has
	// returned and will never drain the queue again.
	consumerDone <-chan struct{}
}

func newFrameQueue(consumerDone <-chan struct{}) *frameQueue {
	return &frameQueue{
		ch:           make(chan []byte, queueCapacity),
		consumerDone: consumerDone,
	}
}

// Put enqueues one frame, blocking while the queue is full. ctx aborts
// the wait; a finished consumer fails it with errStreamFinished so the
// producer can never wedge against a queue nobody drains. Must not be
// called after CloseSend.
func (q *frameQueue) Put(ctx context.Context, frame []byte) error {
	select {
	case q.ch <- frame:
		return nil
	case <-q.consumerDone:
		return errStreamFinished
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CloseSend marks the end of the utterance's audio.
func (q *frameQueue) CloseSend() {
	close(q.ch)
}

// Frames is the single-pass consumer side.
func (q *frameQueue) Frames() <-chan []byte {
	return q.ch
}
