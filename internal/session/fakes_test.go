package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"prepai/internal/api"
	"prepai/internal/stream"
)

type readResult[T any] struct {
	msg T
	err error
}

type fakeVisual struct {
	in     chan readResult[stream.VisualMessage]
	closed chan struct{}
	once   sync.Once

	mu     sync.Mutex
	frames int
	stops  int
}

func newFakeVisual() *fakeVisual {
	return &fakeVisual{in: make(chan readResult[stream.VisualMessage], 16), closed: make(chan struct{})}
}

func (f *fakeVisual) push(msg stream.VisualMessage) { f.in <- readResult[stream.VisualMessage]{msg: msg} }

func (f *fakeVisual) SendFrame([]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *fakeVisual) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeVisual) Read() (stream.VisualMessage, error) {
	select {
	case r := <-f.in:
		return r.msg, r.err
	case <-f.closed:
		return stream.VisualMessage{}, stream.ErrClosed
	}
}

func (f *fakeVisual) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeVisual) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

type fakeAudio struct {
	seed   stream.Seed
	in     chan readResult[stream.AudioMessage]
	closed chan struct{}
	once   sync.Once

	mu   sync.Mutex
	sent []string
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{in: make(chan readResult[stream.AudioMessage], 16), closed: make(chan struct{})}
}

func (f *fakeAudio) push(msg stream.AudioMessage) { f.in <- readResult[stream.AudioMessage]{msg: msg} }

func (f *fakeAudio) pushErr(err error) { f.in <- readResult[stream.AudioMessage]{err: err} }

func (f *fakeAudio) SendChunk(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, "chunk:"+string(data))
	return nil
}

func (f *fakeAudio) SendStopAnswer() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, stream.StopAnswer)
	return nil
}

func (f *fakeAudio) Read() (stream.AudioMessage, error) {
	select {
	case r := <-f.in:
		return r.msg, r.err
	case <-f.closed:
		return stream.AudioMessage{}, stream.ErrClosed
	}
}

func (f *fakeAudio) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeAudio) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

type fakeStreams struct {
	visual    *fakeVisual
	audio     *fakeAudio
	visualErr error
}

func (f *fakeStreams) OpenVisual(context.Context) (VisualStream, error) {
	if f.visualErr != nil {
		return nil, f.visualErr
	}
	return f.visual, nil
}

func (f *fakeStreams) OpenAudio(_ context.Context, seed stream.Seed) (AudioStream, error) {
	f.audio.seed = seed
	return f.audio, nil
}

type fakePersister struct {
	mu    sync.Mutex
	saved []api.SaveRequest
	err   error
}

func (p *fakePersister) Save(_ context.Context, req api.SaveRequest) (*api.InterviewRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, req)
	if p.err != nil {
		return nil, p.err
	}
	return &api.InterviewRecord{ID: "1", UserID: req.UserID, Duration: req.Duration, Scores: req.Scores}, nil
}

func (p *fakePersister) calls() []api.SaveRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]api.SaveRequest(nil), p.saved...)
}

type fakeNotifier struct {
	mu               sync.Mutex
	identityFallback int
	persistFailed    int
}

func (n *fakeNotifier) NotifyIdentityFallback(context.Context, string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.identityFallback++
	return nil
}

func (n *fakeNotifier) NotifyPersistFailed(context.Context, string, error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.persistFailed++
	return nil
}

func (n *fakeNotifier) NotifyError(context.Context, error, string) error { return nil }

func (n *fakeNotifier) TestNotification(context.Context) error { return errors.New("not supported") }

// manualTicks returns a TickerFunc whose ticks are driven by the test.
func manualTicks() (TickerFunc, chan time.Time) {
	ch := make(chan time.Time)
	return func(time.Duration) (<-chan time.Time, func()) { return ch, func() {} }, ch
}

func waitFor(t *testing.T, c *Controller, what string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := c.Snapshot()
		if cond(snap) {
			return snap
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; last snapshot %+v", what, snap)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func waitDone(t *testing.T, c *Controller) Outcome {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session completion")
	}
	outcome, ok := c.Outcome()
	if !ok {
		t.Fatal("expected an outcome")
	}
	return outcome
}
